package config

import (
	"encoding/json"
	"fmt"
	"maps"
	"reflect"
	"slices"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

// Document is the serialized shape of a workflow file.
type Document struct {
	Name        string           `yaml:"name" json:"name"`
	Description string           `yaml:"description,omitempty" json:"description,omitempty"`
	Defaults    map[string]any   `yaml:"defaults,omitempty" json:"defaults,omitempty"`
	Steps       []map[string]any `yaml:"steps" json:"steps"`
}

// Workflow is a validated workflow definition. Treat it as read-only.
type Workflow struct {
	Name        string
	Description string
	Defaults    map[string]any
	Steps       []Step

	doc Document
}

// Document returns the source document the workflow was built from.
func (w *Workflow) Document() Document { return w.doc }

// StepIndex returns the position of the named step, or -1.
func (w *Workflow) StepIndex(name string) int {
	return slices.IndexFunc(w.Steps, func(s Step) bool { return s.StepName() == name })
}

// StepNames returns the step names in declared order.
func (w *Workflow) StepNames() []string {
	names := make([]string, len(w.Steps))
	for i, s := range w.Steps {
		names[i] = s.StepName()
	}
	return names
}

// MarshalJSON serializes the source document.
func (w *Workflow) MarshalJSON() ([]byte, error) {
	return json.Marshal(w.doc)
}

// Parse decodes a YAML or JSON workflow document and validates it.
func Parse(data []byte) (*Workflow, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse workflow: %w", err)
	}
	return Build(doc)
}

// Load reads and validates a workflow file from the OS filesystem.
func Load(path string) (*Workflow, error) {
	return LoadFs(afero.NewOsFs(), path)
}

// LoadFs reads and validates a workflow file from fsys.
func LoadFs(fsys afero.Fs, path string) (*Workflow, error) {
	data, err := afero.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read workflow %s: %w", path, err)
	}
	w, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("workflow %s: %w", path, err)
	}
	return w, nil
}

// Build validates a document. All problems are returned together as
// ValidationErrors.
func Build(doc Document) (*Workflow, error) {
	var errs ValidationErrors
	if strings.TrimSpace(doc.Name) == "" {
		errs = append(errs, &ValidationError{Index: -1, Field: "name", Reason: "is required"})
	}
	if len(doc.Steps) == 0 {
		errs = append(errs, &ValidationError{Index: -1, Field: "steps", Reason: "must contain at least one step"})
	}

	steps, stepErrs := decodeSteps(doc.Steps, doc.Defaults, "")
	errs = append(errs, stepErrs...)
	if len(errs) > 0 {
		return nil, errs
	}

	return &Workflow{
		Name:        doc.Name,
		Description: doc.Description,
		Defaults:    doc.Defaults,
		Steps:       steps,
		doc:         doc,
	}, nil
}

// MergeDefaults overlays step on defaults. Step keys win; nested maps are
// replaced, not merged.
func MergeDefaults(defaults, step map[string]any) map[string]any {
	merged := make(map[string]any, len(defaults)+len(step))
	maps.Copy(merged, defaults)
	maps.Copy(merged, step)
	return merged
}

func decodeSteps(raw []map[string]any, defaults map[string]any, prefix string) ([]Step, ValidationErrors) {
	var errs ValidationErrors
	steps := make([]Step, 0, len(raw))
	seen := make(map[string]int, len(raw))

	for i, rawStep := range raw {
		merged := MergeDefaults(defaults, rawStep)
		name, _ := merged["name"].(string)
		if first, dup := seen[name]; dup && name != "" {
			errs = append(errs, &ValidationError{
				Step:   prefix + name,
				Index:  i,
				Field:  "name",
				Value:  name,
				Reason: fmt.Sprintf("duplicates step #%d", first),
			})
		} else {
			seen[name] = i
		}

		step, stepErrs := decodeStep(i, merged, rawStep, prefix)
		errs = append(errs, stepErrs...)
		if step != nil {
			steps = append(steps, step)
		}
	}
	return steps, errs
}

func decodeStep(index int, merged, own map[string]any, prefix string) (Step, ValidationErrors) {
	name, _ := merged["name"].(string)
	qualified := prefix + name
	fail := func(field string, value any, allowed []string, reason string) ValidationErrors {
		return ValidationErrors{{Step: qualified, Index: index, Field: field, Value: value, Allowed: allowed, Reason: reason}}
	}

	rawType, ok := merged["type"]
	if !ok || rawType == "" {
		return nil, fail("type", nil, stepTypeNames(), "is required")
	}
	typeName, _ := rawType.(string)
	step := newStep(StepType(typeName))
	if step == nil {
		return nil, fail("type", rawType, stepTypeNames(), "unknown step type")
	}

	var md mapstructure.Metadata
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Metadata:         &md,
		Result:           step,
	})
	if err != nil {
		return nil, fail("", nil, nil, err.Error())
	}
	if err := decoder.Decode(merged); err != nil {
		return nil, fail("", nil, nil, err.Error())
	}

	var errs ValidationErrors
	for _, key := range md.Unused {
		if _, fromStep := own[key]; fromStep {
			errs = append(errs, &ValidationError{Step: qualified, Index: index, Field: key, Reason: "unknown field"})
		}
	}

	applyStepDefaults(step)
	errs = append(errs, validateStruct(step, qualified, index)...)

	switch v := step.(type) {
	case *LoopStep:
		children, childErrs := decodeSteps(v.RawSteps, nil, qualified+".")
		v.Steps = children
		errs = append(errs, childErrs...)
	case *ParallelStep:
		children, childErrs := decodeSteps(v.RawSteps, nil, qualified+".")
		v.Steps = children
		errs = append(errs, childErrs...)
	}

	if len(errs) > 0 {
		return nil, errs
	}
	return step, nil
}

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func stepValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name, _, _ := strings.Cut(fld.Tag.Get("mapstructure"), ",")
			if name == "-" {
				return ""
			}
			return name
		})
	})
	return validate
}

func validateStruct(step Step, name string, index int) ValidationErrors {
	err := stepValidator().Struct(step)
	if err == nil {
		return nil
	}
	fieldErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return ValidationErrors{{Step: name, Index: index, Reason: err.Error()}}
	}

	errs := make(ValidationErrors, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		ve := &ValidationError{Step: name, Index: index, Field: fe.Field(), Value: fe.Value()}
		switch fe.Tag() {
		case "required":
			ve.Value = nil
			ve.Reason = "is required"
		case "oneof":
			ve.Allowed = strings.Fields(fe.Param())
			ve.Reason = "is not an allowed value"
		case "min":
			ve.Reason = fmt.Sprintf("must have at least %s entries", fe.Param())
		case "gte":
			ve.Reason = fmt.Sprintf("must be >= %s", fe.Param())
		case "lte":
			ve.Reason = fmt.Sprintf("must be <= %s", fe.Param())
		default:
			ve.Reason = fmt.Sprintf("failed %q validation", fe.Tag())
		}
		errs = append(errs, ve)
	}
	return errs
}

func stepTypeNames() []string {
	names := make([]string, len(StepTypes))
	for i, t := range StepTypes {
		names[i] = string(t)
	}
	return names
}
