package deadline

import "fmt"

// BuildPrompt renders the extraction instruction for one task text. It is a
// pure function of its inputs: the same text and snapshot always produce the
// same prompt. The current weekday, date and time anchor every relative
// expression the model may encounter.
func BuildPrompt(taskText string, snap Snapshot) string {
	return fmt.Sprintf(`You are a precise date & time extractor for a task manager operating in IST (UTC+5:30).

Reference context:
- Current day: %s
- Current date: %s (DD:MM)
- Current time: %s (24-hour)

Rules:
1. Sloppy numbers are times: "230" -> "02:30", "900" -> "09:00", "5" -> "05:00".
2. "today" means the current date above; "tomorrow" means the current date plus one day.
3. A plain weekday name that is today or has already passed this week means
   NEXT week's occurrence, never today and never a past day of this week.
   A weekday later in this week means that day of this week.
4. "text" must be the task description with ALL date and time wording removed.
5. Set "explicit_today" to true only when the word "today" appears in the task.

Output ONLY a single JSON object, no prose, no markdown fences:
{
  "date": "DD:MM" or "",
  "time": "HH:MM" (24-hour) or "",
  "day": "Weekday" or "",
  "explicit_today": true/false,
  "text": "cleaned task description"
}

Task: %q`, snap.Weekday, snap.Date, snap.Time, taskText)
}
