package errors

import "sort"

// Template defines a registered error type.
type Template struct {
	Category Category
	Message  string
	Detail   string
}

// registry maps error codes to their templates.
var registry = map[string]Template{
	// Replay script errors (R001-R099)
	"R001": {
		Category: CategoryScript,
		Message:  "Unknown step operation",
		Detail:   "Valid operations are mount, unmount, set, add, replace, flush, paint and expect.",
	},
	"R002": {
		Category: CategoryScript,
		Message:  "Unknown consumer",
		Detail:   "The step refers to a consumer id that was never mounted or was already unmounted.",
	},
	"R003": {
		Category: CategoryScript,
		Message:  "Duplicate consumer",
		Detail:   "A consumer with this id is already mounted. Unmount it first or pick another id.",
	},
	"R004": {
		Category: CategoryScript,
		Message:  "Expectation failed",
		Detail:   "The consumer's last rendered value differs from the expected value.",
	},
	"R005": {
		Category: CategoryScript,
		Message:  "Unreadable script",
		Detail:   "The script could not be read or is not a JSON document with a steps array.",
	},
	"R006": {
		Category: CategoryScript,
		Message:  "Invalid step value",
		Detail:   "The step's value does not fit the operation, e.g. add needs a number and replace needs an object.",
	},

	// Configuration errors (C001-C099)
	"C001": {
		Category: CategoryConfig,
		Message:  "Invalid configuration",
		Detail:   "A configuration value from flags, environment or .env files is not valid.",
	},
}

// GetTemplate returns the template for a code.
func GetTemplate(code string) (Template, bool) {
	t, ok := registry[code]
	return t, ok
}

// Codes returns every registered code in sorted order.
func Codes() []string {
	codes := make([]string, 0, len(registry))
	for code := range registry {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}
