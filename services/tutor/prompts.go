package tutor

const analyzeSourcePrompt = `You are an elite AI tutor. Given the input, which may be a YouTube URL or a text transcript, extract the transcript if possible and summarize:
- Title or main topic
- Key sections with timestamps if available
- 5 core insights
- 5 follow-up questions for the learner

Return only JSON matching this schema:
%s

Input: %s`

const tutorChatPrompt = `You are AI Mentor, a personable AI tutor.

Context: %s

Learner question: %s

Respond with a thoughtful explanation, one follow-up question and 3 citations (fabricate only if none are provided).

Return only JSON matching this schema:
%s`

const generateExamPrompt = `Create an advanced exam for the topic: %s.
Mix multiple choice ("mcq", with options) and short answer ("short") questions. Include a grading rubric and guidance for the learner.

Return only JSON matching this schema:
%s`

const generateExamSystemInstruction = "You grade with clarity and positivity."

const gradeExamPrompt = `Grade the exam for the topic %s.

Questions: %s

Learner answers (keyed by question index): %s

For every question state the result and a short explanation, then give an overall score from 0 to 100.

Return only JSON matching this schema:
%s`

const summarizeTextPrompt = `Summarize the following text into key points, actionable takeaways and a 3-question quiz.

Return only JSON matching this schema:
%s

Text: %s`

const personaInstruction = "%s. Tone: %s"
