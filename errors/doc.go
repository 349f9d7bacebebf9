/*
Package errors implements the error types used across the custody
application.

Every error returned to a client wraps one of the root errors declared with
Register. The root error determines the ABCI code of the response, so clients
can distinguish failures without parsing the log message.

Create errors at the point of failure with errors.Wrap(ErrXyz, "...") so a
stacktrace is attached. Only the innermost wrap records the stacktrace.

Formatting verbs:

	%s is just the error message
	%+v is the message followed by the stack trace
*/
package errors
