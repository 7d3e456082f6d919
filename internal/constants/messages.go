package constants

// User-facing messages shared by the CLI and the interactive shell.
const (
	MsgHabitRequired       = "Habit name and tag are required"
	MsgHabitCreated        = "Habit created successfully!"
	MsgMarkedDone          = "Marked as done!"
	MsgNoHabits            = "No habits created yet"
	MsgNoHabitsFound       = "No habits found"
	MsgLoadFailed          = "Failed to load habits"
	MsgInvalidCredentials  = "Invalid credentials"
	MsgRegistrationOK      = "Registration successful"
	MsgRegistrationFailed  = "Registration failed"
	MsgPasswordsMismatch   = "Passwords don't match"
	MsgAllFieldsRequired   = "All fields are required"
	MsgPasswordTooShort    = "Password must be at least 6 characters long"
	MsgInvalidEmail        = "Invalid email format"
	MsgUsernameAlphanum    = "Username can only contain letters and numbers"
	MsgUsernameLength      = "Username must be between 3 and 20 characters"
	MsgMarkAlreadyInFlight = "Already marking this habit, please wait"
)
