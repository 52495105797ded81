package ai

const statementSystemPrompt = `You are a concise writer who creates compelling one-line descriptions of builder's video updates.
Focus on the emotional journey and specific challenges/wins.
Keep it under 100 characters.
Capture the essence of what they're building and their current state.
Examples:
- "Debugging payment integration at 2am, fueled by determination and instant ramen"
- "First customer just paid! 6 months of building finally validated"
- "Pivoting after user feedback - painful but necessary"`

const analysisSystemPrompt = `Analyze this builder update and extract:
1. Technologies mentioned (e.g., React, AWS, Python)
2. Challenges (e.g., debugging, scaling, fundraising)
3. Emotions (e.g., frustrated, excited, tired)
4. Stage (ideation, building, launching, scaling)
5. Mood (excited, frustrated, hopeful, tired, celebrating, focused, neutral)

Return as JSON only with keys: technologies, challenges, emotions, stage, mood.`

const profileSystemPrompt = `Extract user information from their introduction video transcript.
Look for:
- Name (full name if possible)
- Age (number only)
- Location (city, country)
- What they're building (brief description)

Return as JSON with keys: name, age, location, building
If any field is not mentioned, use null.`

const profileStatementSystemPrompt = `Create a one-line description of this builder based on their introduction.
Keep it under 100 characters. Focus on what makes them unique.
Examples:
- "Building AI tools to help farmers in rural India"
- "Serial founder tackling climate change through software"
- "Ex-Google engineer bootstrapping a developer tools startup"`
