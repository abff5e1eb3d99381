package worker

import "fmt"

func courseSkeletonPrompt(memoryContext, chatContext string) string {
	return fmt.Sprintf(`ROLE: Expert Curriculum Designer
TASK: Generate course skeleton WITHOUT lesson content.
IMPORTANT: You must output strictly in valid JSON format.

USER MEMORY:
%s

CHAT HISTORY:
%s

RETURN ONLY JSON structure like this:
{
  "course": { "title": "", "description": "", "difficulty": "", "estimated_time": "" },
  "lessons": [{ "title": "", "objectives": ["",""] }]
}
`, memoryContext, chatContext)
}

func lessonPrompt(courseTitle, difficulty, lessonTitle, memoryContext, chatContext string) string {
	return fmt.Sprintf(`ROLE: Expert Technical Educator
TASK: Write the full lesson content in Markdown.

COURSE: %s
LEVEL: %s
LESSON TITLE: %s

CONTEXT:
Memory: %s
Chat: %s

INSTRUCTIONS:
1. Return ONLY the Markdown text.
2. Do NOT wrap the output in a JSON object.
3. Do NOT wrap the output in markdown code fences.
4. Start directly with the first heading (e.g., "# Introduction").
`, courseTitle, difficulty, lessonTitle, memoryContext, chatContext)
}

func videoQueryPrompt(courseTitle, lessonTitle string) string {
	return fmt.Sprintf(`ROLE: You are an expert YouTube Search Engineer.

GOAL:
Generate ONE optimized YouTube search query that finds a focused educational video about the specific lesson topic - not a full course.

INPUT:
Lesson: [ %s ]
Course Title: [ %s ]

INSTRUCTIONS:
1. Understand the lesson topic clearly.
2. Create a natural YouTube search query that best represents this topic.
3. Do NOT reference video length or duration.
4. Do NOT include extra text, formatting, explanations, or JSON.

OUTPUT:
Return ONLY the YouTube search query.
`, lessonTitle, courseTitle)
}
