package prompt

type builtin struct {
	name        string
	description string
	variables   []string
	source      string
}

var builtins = []builtin{
	{
		name:        "structure_generation",
		description: "Course module/lesson structure for a topic and audience",
		variables:   []string{"audience", "course_title", "duration_weeks", "topic"},
		source: `You are an instructional designer.

Design the structure of a course titled "{{ course_title }}" about {{ topic }}
for {{ audience }}. The course runs for {{ duration_weeks }} weeks.

Return a JSON object with a "modules" array. Each module has a "title",
a "summary" and a "lessons" array of lesson titles.`,
	},
	{
		name:        "outcome_refinement",
		description: "Rewrite learning outcomes to be measurable",
		variables:   []string{"audience", "outcomes"},
		source: `Rewrite the following learning outcomes for {{ audience }} so each one
starts with a measurable action verb (Bloom's taxonomy) and describes a single
observable behaviour.

Outcomes:
{{ outcomes }}

Return one outcome per line as a bulleted list.`,
	},
	{
		name:        "lecture_generation",
		description: "Lecture notes for a single lesson",
		variables:   []string{"audience", "lesson_title", "outcomes"},
		source: `Write lecture notes in Markdown for the lesson "{{ lesson_title }}".
Audience: {{ audience }}.

The lecture must address these learning outcomes:
{{ outcomes }}

Use headings for each section, include at least one worked example, and end
with a short summary.`,
	},
	{
		name:        "quiz_generation",
		description: "Multiple-choice quiz for lesson content",
		variables:   []string{"content", "num_questions"},
		source: `Write {{ num_questions }} multiple-choice questions that assess the
material below. Each question has four options and exactly one correct answer.

Material:
{{ content }}

Return a JSON array of objects with "question", "options" and "answer" fields.`,
	},
	{
		name:        "rubric_generation",
		description: "Grading rubric for an assignment",
		variables:   []string{"assignment", "criteria_count", "levels"},
		source: `Create a grading rubric for this assignment:
{{ assignment }}

Use {{ criteria_count }} criteria and these performance levels: {{ levels }}.
Return a Markdown table with one row per criterion and one column per level.`,
	},
	{
		name:        "case_study_generation",
		description: "Realistic case study with discussion questions",
		variables:   []string{"audience", "industry", "topic"},
		source: `Write a realistic case study about {{ topic }} set in the {{ industry }}
industry for {{ audience }}.

Include background, the central problem, relevant data, and finish with three
open discussion questions.`,
	},
}
