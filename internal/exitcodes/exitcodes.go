package exitcodes

import "hdf-eco-tool/internal/toolerr"

// Exit codes for hdf-delete
// These codes form the operational contract with scripts and IDE plugins
const (
	Success         = 0 // Successful execution
	InvalidArgs     = 2 // Arguments, configuration or registry format invalid
	SafetyViolation = 3 // Safety validator blocked an operation
	RuntimeError    = 4 // Runtime error during execution
	TargetNotExist  = 5 // Vendor, module, registry or framework directory not found
)

// FromError maps a tool error code onto a process exit code
func FromError(err error) int {
	if err == nil {
		return Success
	}
	switch toolerr.CodeOf(err) {
	case toolerr.MessageFormatWrong, toolerr.InterfaceNotExist, toolerr.FileFormatWrong:
		return InvalidArgs
	case toolerr.SafetyViolation:
		return SafetyViolation
	case toolerr.TargetNotExist:
		return TargetNotExist
	default:
		return RuntimeError
	}
}
