package core

type (
	// Logger is the application-wide structured logger.
	// args are optional extras: an error, a map[string]interface{} of fields or a Person.
	Logger interface {
		Enable(enabled bool)
		Debug(msg string, args ...interface{})
		Info(msg string, args ...interface{})
		Warn(msg string, args ...interface{})
		Error(msg string, args ...interface{})
		Fatal(msg string, args ...interface{})
	}

	// Person identifies the user an entry is logged on behalf of.
	Person interface {
		PersonInfo() (id, username, email string)
	}
)
