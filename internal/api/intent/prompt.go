package intent

import (
	"fmt"
	"strings"

	"github.com/someplace/go-date-course-api/internal/types"
)

func buildIntentPrompt(query string, history []types.ConversationTurn) string {
	var conversation strings.Builder
	if len(history) > 0 {
		conversation.WriteString("[이전 대화 내용]\n")
		for _, turn := range history {
			speaker := "AI"
			if turn.Role == "user" {
				speaker = "사용자"
			}
			conversation.WriteString(fmt.Sprintf("- %s: %s\n", speaker, turn.Content))
		}
		conversation.WriteString("\n")
	}

	return fmt.Sprintf(`You are an intent analysis AI. Analyze the user's request and return the result in JSON format only.
Do not include any explanations, markdown code blocks, or extra text. Just the JSON object.

%s[Current User Input]: "%s"

[Analysis Rules]
1. intent:
   - If user wants to eat/drink (restaurant, cafe, bar) -> "FOOD"
   - If user wants to visit/play (attraction, park, activity) -> "SPOT"
   - If user wants both, or asks for a 'course' -> "COURSE"
   - If unsure -> "COURSE"

2. location:
   - Extract the specific location name (e.g., 'Gangnam', 'Hongdae', 'Seongsu').
   - IMPORTANT: If the current input has no location, look at [이전 대화 내용] to find the most recent location.
   - If no location is found in context, set it to null.

[Output Format Example]
{"intent": "COURSE", "location": "강남"}
OR
{"intent": "FOOD", "location": null}`, conversation.String(), query)
}
