package models

// CreateUserForm represents form data for creating a backend account
// through the admin interface.
type CreateUserForm struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     Role   `json:"role"`
}

// Validate validates the create-user form data
func (f *CreateUserForm) Validate() []string {
	var errors []string

	if f.Username == "" {
		errors = append(errors, "Username is required")
	}

	if len(f.Username) > 100 {
		errors = append(errors, "Username must be less than 100 characters")
	}

	if f.Password == "" {
		errors = append(errors, "Password is required")
	}

	if f.Email != "" && !isValidEmail(f.Email) {
		errors = append(errors, "Email format is invalid")
	}

	if f.Role != "" && !f.Role.Valid() {
		errors = append(errors, "Role must be user or admin")
	}

	return errors
}

// isValidEmail performs basic email validation
func isValidEmail(email string) bool {
	// Simple validation: must contain one @ and at least one dot after it
	atIndex := -1
	for i, char := range email {
		if char == '@' {
			if atIndex != -1 {
				return false // Multiple @ symbols
			}
			atIndex = i
		}
	}

	if atIndex == -1 || atIndex == 0 || atIndex == len(email)-1 {
		return false // No @, or @ at start/end
	}

	// Check for dot after @
	for i := atIndex + 1; i < len(email); i++ {
		if email[i] == '.' && i < len(email)-1 {
			return true
		}
	}

	return false
}
