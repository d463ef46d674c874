package checker

import (
	"fmt"
	"strings"

	"github.com/oshokin/distpack/internal/domain/descriptor"
	"github.com/oshokin/distpack/internal/pyversion"
)

const (
	pythonClassifierPrefix  = "Programming Language :: Python :: "
	licenseClassifierPrefix = "License :: OSI Approved :: "
)

// Finding is a single inconsistency found in a descriptor.
type Finding struct {
	// Field names the descriptor field at fault.
	Field string
	// Message explains the problem.
	Message string
}

func (f Finding) String() string {
	return f.Field + ": " + f.Message
}

// Options tune Check.
type Options struct {
	// Interpreter, when set, must satisfy requires_python (e.g. "3.10.4").
	Interpreter string
}

// Check returns every finding for d, in classifier order.
func Check(d *descriptor.PackageDescriptor, opts Options) []Finding {
	var findings []Finding

	// An unparseable requirement is reported once and then allows everything.
	requirement, err := pyversion.ParseRequirement(d.RequiresPython())
	if err != nil {
		findings = append(findings, Finding{Field: "python_requires", Message: err.Error()})
	}

	for _, classifier := range d.Classifiers() {
		if f, ok := checkPythonClassifier(classifier, requirement); ok {
			findings = append(findings, f)
		}

		if f, ok := checkLicenseClassifier(classifier, d.License()); ok {
			findings = append(findings, f)
		}
	}

	if opts.Interpreter != "" {
		if f, ok := checkInterpreter(opts.Interpreter, requirement); ok {
			findings = append(findings, f)
		}
	}

	return findings
}

func checkPythonClassifier(classifier string, r pyversion.Requirement) (Finding, bool) {
	series, ok := strings.CutPrefix(classifier, pythonClassifierPrefix)
	if !ok {
		return Finding{}, false
	}

	// "3 :: Only" and "Implementation :: CPython" carry no version range.
	series, _, _ = strings.Cut(series, " ")
	if series == "" || !isNumericSeries(series) {
		return Finding{}, false
	}

	v, err := pyversion.ParseVersion(series)
	if err != nil {
		return Finding{Field: "classifiers", Message: fmt.Sprintf("%q: %v", classifier, err)}, true
	}

	if !r.AllowsSeries(v) {
		return Finding{
			Field:   "classifiers",
			Message: fmt.Sprintf("%q is outside python_requires %q", classifier, r),
		}, true
	}

	return Finding{}, false
}

func checkLicenseClassifier(classifier, license string) (Finding, bool) {
	name, ok := strings.CutPrefix(classifier, licenseClassifierPrefix)
	if !ok || license == "" {
		return Finding{}, false
	}

	short := strings.TrimSuffix(name, " License")
	if strings.EqualFold(short, license) || strings.EqualFold(name, license) {
		return Finding{}, false
	}

	if strings.Contains(strings.ToLower(short), strings.ToLower(license)) {
		return Finding{}, false
	}

	return Finding{
		Field:   "license",
		Message: fmt.Sprintf("license %q disagrees with classifier %q", license, classifier),
	}, true
}

func checkInterpreter(raw string, r pyversion.Requirement) (Finding, bool) {
	v, err := pyversion.ParseVersion(raw)
	if err != nil {
		return Finding{Field: "interpreter", Message: err.Error()}, true
	}

	if !r.Allows(v) {
		return Finding{
			Field:   "interpreter",
			Message: fmt.Sprintf("Python %s does not satisfy python_requires %q", v, r),
		}, true
	}

	return Finding{}, false
}

func isNumericSeries(s string) bool {
	for _, r := range s {
		if (r < '0' || r > '9') && r != '.' {
			return false
		}
	}

	return true
}
