package openai

import (
	"fmt"
	"strings"
)

// Message represents an OpenAI chat message.
type Message struct {
	Role    string
	Content string
}

const (
	systemPromptFixJSON = "You are a JSON repair tool. Return only valid JSON that matches the schema exactly."

	systemPromptHeader = `You are a professional HR expert specialized in IT recruiting. Respond with JSON only. No markdown. Never omit keys.

TASK:
1. Analyze the CV as usual (personal, experience, education, skills).
2. Check ALL requirements of the position against the CV:
   - MUST-HAVE requirements
   - SHOULD-HAVE requirements (these MUST be analyzed, never left empty)
   - NICE-TO-HAVE requirements (these MUST be analyzed, never left empty)
3. Decide for each requirement whether it is met (true/false).
4. Provide CONCRETE EVIDENCE from the CV (literal quotes).

MATCHING RULES:
- "found": true when the skill is demonstrable, explicitly or implicitly through related experience.
- "found": false only when the skill is not mentioned AND not implicitly recognizable.
- "evidence": a literal quote or concrete passage from the CV.
- OR-linked requirements count as met when at least ONE option is found.
- Related skills count: technology families satisfy their members.
- Basic knowledge, assisting roles, and contributions count as found.
- Always extract language skills when present.`

	schemaBlock = `JSON STRUCTURE:
{
  "standard_cv_analysis": {
    "personal": {"name": "...", "email": "...", "phone": "...", "location": "..."},
    "experience": [],
    "education": [],
    "skills": {
      "technical": [],
      "soft": [],
      "languages": [{"language": "...", "level": "..."}]
    },
    "career_level": "...",
    "main_expertise": "..."
  },
  "requirements_matching": {
    "must_have": [
      {
        "category": "...",
        "skills": [
          {"skill": "...", "found": true, "evidence": "..."}
        ]
      }
    ],
    "should_have": [],
    "nice_to_have": []
  },
  "gap_analysis": {
    "critical_missing": [],
    "nice_missing": [],
    "strengths": []
  }
}

Return ONLY valid JSON matching this structure. Analyze every requirement from all three levels.`
)

// BuildPrompt creates the chat messages for a CV analysis request. The
// position's formatted requirement catalogue is embedded into the system
// prompt so the model checks every listed skill.
func BuildPrompt(cvText, positionTitle, requirements string) []Message {
	var system strings.Builder
	system.WriteString(systemPromptHeader)
	if strings.TrimSpace(requirements) != "" {
		system.WriteString("\n\nPOSITION REQUIREMENTS:\n")
		system.WriteString(requirements)
	}
	system.WriteString("\n\n")
	system.WriteString(schemaBlock)

	title := strings.TrimSpace(positionTitle)
	if title == "" {
		title = "the open position"
	}

	return []Message{
		{Role: "system", Content: system.String()},
		{Role: "user", Content: fmt.Sprintf("Analyze this CV for the position '%s':\n\n%s", title, cvText)},
	}
}

func buildFixPrompt(raw []byte) []Message {
	return []Message{
		{Role: "system", Content: systemPromptFixJSON},
		{Role: "user", Content: fmt.Sprintf("Fix this JSON to match the schema exactly. Output JSON only:\n%s", string(raw))},
	}
}
