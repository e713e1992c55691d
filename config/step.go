package config

// StepType names a step variant.
type StepType string

const (
	StepPrompt      StepType = "prompt"
	StepValidation  StepType = "validation"
	StepRemediation StepType = "remediation"
	StepOutput      StepType = "output"
	StepConditional StepType = "conditional"
	StepLoop        StepType = "loop"
	StepParallel    StepType = "parallel"
)

// StepTypes lists every known step type.
var StepTypes = []StepType{
	StepPrompt, StepValidation, StepRemediation, StepOutput,
	StepConditional, StepLoop, StepParallel,
}

// OutputFormat selects how a prompt step's raw completion is transformed.
type OutputFormat string

const (
	FormatRaw  OutputFormat = "raw"
	FormatJSON OutputFormat = "json"
	FormatList OutputFormat = "list"
	FormatHTML OutputFormat = "html"
)

// FileFormat selects how an output step serializes content.
type FileFormat string

const (
	FileText     FileFormat = "text"
	FileMarkdown FileFormat = "markdown"
	FileJSON     FileFormat = "json"
	FileHTML     FileFormat = "html"
)

// Step is implemented by every step variant.
type Step interface {
	StepName() string
	StepType() StepType
	// OutputVar is the context variable the step writes, or "" if none.
	OutputVar() string
}

// Base holds the fields common to all steps.
type Base struct {
	Name string   `mapstructure:"name" json:"name" validate:"required"`
	Type StepType `mapstructure:"type" json:"type" validate:"required"`
}

func (b Base) StepName() string   { return b.Name }
func (b Base) StepType() StepType { return b.Type }

// PromptStep renders a prompt, calls the model and stores the transformed result.
type PromptStep struct {
	Base                `mapstructure:",squash"`
	Prompt              string       `mapstructure:"prompt" json:"prompt" validate:"required"`
	OutputVariable      string       `mapstructure:"output_variable" json:"output_variable" validate:"required"`
	Model               string       `mapstructure:"model" json:"model,omitempty"`
	OutputFormat        OutputFormat `mapstructure:"output_format" json:"output_format" validate:"omitempty,oneof=raw json list html"`
	TransformationRules []string     `mapstructure:"transformation_rules" json:"transformation_rules,omitempty"`
	Temperature         *float64     `mapstructure:"temperature" json:"temperature,omitempty" validate:"omitempty,gte=0,lte=2"`
	MaxTokens           int          `mapstructure:"max_tokens" json:"max_tokens,omitempty" validate:"gte=0"`
	SystemPrompt        string       `mapstructure:"system_prompt" json:"system_prompt,omitempty"`
}

func (s *PromptStep) OutputVar() string { return s.OutputVariable }

// ValidationStep checks content with named validators.
type ValidationStep struct {
	Base            `mapstructure:",squash"`
	ContentVariable string   `mapstructure:"content_variable" json:"content_variable" validate:"required"`
	Validators      []string `mapstructure:"validators" json:"validators" validate:"min=1,dive,required"`
	OutputVariable  string   `mapstructure:"output_variable" json:"output_variable" validate:"required"`
	FailOnError     bool     `mapstructure:"fail_on_error" json:"fail_on_error"`
}

func (s *ValidationStep) OutputVar() string { return s.OutputVariable }

// RemediationStep repairs content given a list of issues.
type RemediationStep struct {
	Base            `mapstructure:",squash"`
	ContentVariable string         `mapstructure:"content_variable" json:"content_variable" validate:"required"`
	IssuesVariable  string         `mapstructure:"issues_variable" json:"issues_variable" validate:"required"`
	OutputVariable  string         `mapstructure:"output_variable" json:"output_variable" validate:"required"`
	Remediators     []string       `mapstructure:"remediators" json:"remediators,omitempty" validate:"dive,required"`
	Options         map[string]any `mapstructure:"options" json:"options,omitempty"`
}

func (s *RemediationStep) OutputVar() string { return s.OutputVariable }

// OutputStep writes content to a file.
type OutputStep struct {
	Base            `mapstructure:",squash"`
	ContentVariable string     `mapstructure:"content_variable" json:"content_variable" validate:"required"`
	OutputPath      string     `mapstructure:"output_path" json:"output_path" validate:"required"`
	Format          FileFormat `mapstructure:"format" json:"format" validate:"omitempty,oneof=text markdown json html"`
	OutputVariable  string     `mapstructure:"output_variable" json:"output_variable" validate:"required"`
}

func (s *OutputStep) OutputVar() string { return s.OutputVariable }

// ConditionalStep is reserved; it validates but does not execute.
type ConditionalStep struct {
	Base      `mapstructure:",squash"`
	Condition string   `mapstructure:"condition" json:"condition" validate:"required"`
	IfTrue    []string `mapstructure:"if_true" json:"if_true,omitempty"`
	IfFalse   []string `mapstructure:"if_false" json:"if_false,omitempty"`
}

func (s *ConditionalStep) OutputVar() string { return "" }

// LoopStep is reserved; it validates but does not execute.
type LoopStep struct {
	Base          `mapstructure:",squash"`
	ItemsVariable string           `mapstructure:"items_variable" json:"items_variable" validate:"required"`
	RawSteps      []map[string]any `mapstructure:"steps" json:"steps" validate:"min=1"`
	Steps         []Step           `mapstructure:"-" json:"-"`
}

func (s *LoopStep) OutputVar() string { return "" }

// ParallelStep is reserved; it validates but does not execute.
type ParallelStep struct {
	Base     `mapstructure:",squash"`
	RawSteps []map[string]any `mapstructure:"steps" json:"steps" validate:"min=1"`
	Steps    []Step           `mapstructure:"-" json:"-"`
}

func (s *ParallelStep) OutputVar() string { return "" }

func newStep(t StepType) Step {
	switch t {
	case StepPrompt:
		return &PromptStep{}
	case StepValidation:
		return &ValidationStep{}
	case StepRemediation:
		return &RemediationStep{}
	case StepOutput:
		return &OutputStep{}
	case StepConditional:
		return &ConditionalStep{}
	case StepLoop:
		return &LoopStep{}
	case StepParallel:
		return &ParallelStep{}
	}
	return nil
}

func applyStepDefaults(s Step) {
	switch v := s.(type) {
	case *PromptStep:
		if v.OutputFormat == "" {
			v.OutputFormat = FormatRaw
		}
	case *OutputStep:
		if v.Format == "" {
			v.Format = FileText
		}
	}
}
