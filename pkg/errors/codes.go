package errors

import "strconv"

// ErrorCode is the typed failure-category code carried by every AppError.
// Codes are grouped by hundreds: 0 OK, 1xx generic, 2xx model loading,
// 3xx inference input, 4xx configuration and IO.
type ErrorCode int

const (
	// CodeOK indicates no error.  Returned by GetCode(nil).
	CodeOK ErrorCode = 0

	// CodeUnknown is the fallback for errors that carry no AppError.
	CodeUnknown ErrorCode = 100
	// CodeInternal marks unexpected failures with no more specific code.
	CodeInternal ErrorCode = 101

	// CodeModelImageMalformed marks a model image that fails structural
	// parsing (bad magic, truncated section, unsupported version).
	CodeModelImageMalformed ErrorCode = 200
	// CodeModelMissing marks an image that parsed but lacks a required
	// sub-model section.
	CodeModelMissing ErrorCode = 201
	// CodeModelOptionsInvalid marks sub-model options that fail validation.
	CodeModelOptionsInvalid ErrorCode = 202
	// CodeRegexCompile marks a sharing hint pattern that failed to compile.
	CodeRegexCompile ErrorCode = 203
	// CodeNetworkParams marks a network parameter blob with an inconsistent
	// topology (dimension mismatch, truncated weights).
	CodeNetworkParams ErrorCode = 204

	// CodeInvalidInput marks caller-supplied inputs that fail validation.
	CodeInvalidInput ErrorCode = 300

	// CodeConfigInvalid marks configuration that fails validation.
	CodeConfigInvalid ErrorCode = 400
	// CodeIO marks file-system failures (open, map, read).
	CodeIO ErrorCode = 401
)

// codeNames maps each code to its canonical name for log and metric labels.
var codeNames = map[ErrorCode]string{
	CodeOK:                  "OK",
	CodeUnknown:             "Unknown",
	CodeInternal:            "Internal",
	CodeModelImageMalformed: "ModelImageMalformed",
	CodeModelMissing:        "ModelMissing",
	CodeModelOptionsInvalid: "ModelOptionsInvalid",
	CodeRegexCompile:        "RegexCompile",
	CodeNetworkParams:       "NetworkParams",
	CodeInvalidInput:        "InvalidInput",
	CodeConfigInvalid:       "ConfigInvalid",
	CodeIO:                  "IO",
}

// String returns the canonical name of the code, or "Code(<n>)" for values
// outside the registered set.
func (c ErrorCode) String() string {
	if name, ok := codeNames[c]; ok {
		return name
	}
	return "Code(" + strconv.Itoa(int(c)) + ")"
}
