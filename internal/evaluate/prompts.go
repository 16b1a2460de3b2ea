package evaluate

import (
	"fmt"

	"github.com/gradekit/gradekit/internal/models"
)

// jsonFormatPrompts nudges each backend toward bare-JSON replies. The
// hosted providers also get a native JSON response mode on the wire;
// this suffix covers models that ignore it.
var jsonFormatPrompts = map[models.Provider]string{
	models.ProviderOpenAI: "\nRespond with a valid JSON object only, no additional text.",
	models.ProviderClaude: "\nProvide response as a JSON object, no other text.",
	models.ProviderGroq:   "\nOutput only a valid JSON object, nothing else.",
	models.ProviderLocal:  "\nFormat response as valid JSON.",
}

const promptTemplate = `Grade this student solution following these instructions:

GRADING INSTRUCTIONS:
%s

IDEAL SOLUTION:
%s

STUDENT SOLUTION:
%s

Respond with a JSON object containing:
{
    "score": <number between 0-20>,
    "feedback": "<detailed feedback>",
    "improvements": ["<specific improvement suggestions>"],
    "breakdown": {
        "question1": <score>,
        "question2": <score>,
        ...
    }
}

%s`

// BuildPrompt renders the grading prompt for one submission, with the
// JSON instruction suffix tuned to the provider that will serve it.
func BuildPrompt(req *models.GradingRequest, provider models.Provider) string {
	return fmt.Sprintf(promptTemplate,
		req.GradingInstructions,
		req.IdealSolution,
		req.StudentSolution,
		jsonFormatPrompts[provider])
}
