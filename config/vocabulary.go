package config

import (
	"slices"
	"strings"
)

// Vocabulary lists the names steps may refer to. A nil list is not checked.
type Vocabulary struct {
	Rules       []string
	Validators  []string
	Remediators []string
}

// CheckNames reports every transformation rule, validator and remediator the
// workflow names that is missing from v. Validator arguments ("min_words:200")
// are ignored.
func (w *Workflow) CheckNames(v Vocabulary) error {
	var errs ValidationErrors
	check := func(step string, index int, field string, names, allowed []string, stripArg bool) {
		if allowed == nil {
			return
		}
		for _, ref := range names {
			name := ref
			if stripArg {
				name, _, _ = strings.Cut(ref, ":")
			}
			if !slices.Contains(allowed, name) {
				errs = append(errs, &ValidationError{
					Step:    step,
					Index:   index,
					Field:   field,
					Value:   name,
					Allowed: allowed,
					Reason:  "unknown name",
				})
			}
		}
	}

	var walk func(steps []Step, prefix string)
	walk = func(steps []Step, prefix string) {
		for i, s := range steps {
			name := prefix + s.StepName()
			switch st := s.(type) {
			case *PromptStep:
				check(name, i, "transformation_rules", st.TransformationRules, v.Rules, false)
			case *ValidationStep:
				check(name, i, "validators", st.Validators, v.Validators, true)
			case *RemediationStep:
				check(name, i, "remediators", st.Remediators, v.Remediators, false)
			case *LoopStep:
				walk(st.Steps, name+".")
			case *ParallelStep:
				walk(st.Steps, name+".")
			}
		}
	}
	walk(w.Steps, "")

	if len(errs) > 0 {
		return errs
	}
	return nil
}
