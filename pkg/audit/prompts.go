package audit

import "fmt"

// detailsPrompt asks for a broad company profile in plain prose. JSON is
// explicitly forbidden so the profile stays readable inside later prompts.
func detailsPrompt(subject string) string {
	return fmt.Sprintf(`Role: You are a prospective evaluator of firms for a digital transformation project. You have shortlisted %[1]s and need unbiased, detailed, and actionable information to decide.

Prioritize clarity, specificity, and decision-useful insights (e.g., differentiators, risks, industry fit). Use bullet points, tables, or concise paragraphs where helpful.

STRICT INSTRUCTION: do not include emojis or json in the response

Provide detailed information under the following sections:

What is %[1]s?
Tell me about %[1]s
What does %[1]s do?
List the key services offered by %[1]s
Who are the main competitors of %[1]s
Compare %[1]s with its competitors
How large is %[1]s as a company?
What industries does %[1]s primarily serve
What are %[1]s's strengths and weaknesses?
Summarize online sentiment about %[1]s
What are the reported strengths and weaknesses of %[1]s's service
How is %[1]s positioned compared to other top competitors in 2026
Why should I choose %[1]s?
Why should I NOT choose %[1]s?
Tell me about leadership team members of %[1]s and their roles
How is life/environment at %[1]s?
Are there any partners or sponsors of %[1]s?
Who are the notable customers of %[1]s?
Mention any awards or achievements if they have any
Give employee perception of %[1]s

Provide thorough, factual, and comprehensive information for each section.`, subject)
}

// questionsPrompt asks for natural stakeholder questions about the profile,
// returned as a JSON object keyed by stakeholder.
func questionsPrompt(companyDetails string) string {
	return fmt.Sprintf(`You are simulating real human curiosity.

Based on the company profile below:

%s

Generate realistic questions that real people would naturally ask in real-life situations.

Important constraints:
- Questions must sound natural and conversational.
- Avoid academic, overly technical, or MBA-style language.
- Do not assume access to internal financial metrics unless publicly obvious.
- Keep questions grounded in what a person could realistically know or care about.
- Limit to 5-7 strong, natural questions per stakeholder.

1. Investor
2. Customer
3. Competitor
4. Regulator
5. Journalist
6. Potential Employee
7. Industry Analyst

Focus on:
- Practical concerns
- Reputation
- Growth
- Stability
- Trust
- Personal impact

Return output strictly in structured JSON format like:
`+"```json"+`
{
  "investor_questions": [],
  "customer_questions": [],
  "competitor_questions": [],
  "regulator_questions": [],
  "journalist_questions": [],
  "employee_questions": [],
  "analyst_questions": []
}
`+"```", companyDetails)
}

// answersPrompt asks for detailed answers to every stakeholder question,
// grounded strictly in the profile, with per-answer metadata.
func answersPrompt(companyDetails, questions string) string {
	return fmt.Sprintf(`You are a seasoned business analyst with extensive experience in evaluating companies. Your task is to respond to a structured interrogation about a company based on the provided information.
Your answers should be thorough, objective, and professional, yet written in a natural, human-like tone.

**Given:**

1. **Company Profile:**
   %s

2. **Stakeholder Questions:**
   %s

**Task:**

Answer ALL questions in a way that mimics human analysis. Ensure responses are detailed, objective, and based solely on the provided information.
If data is missing, clearly state this without speculation.

**Rules:**

- Base answers ONLY on the provided company profile.
- Do not invent new facts.
- If information is missing, state: "Insufficient information in provided profile."
- Use a professional yet conversational tone.
- Avoid overly robotic or formulaic language.
- If making an inference, clearly mark it as such (e.g., "Based on the available data, it can be inferred that...").

**For each answer, include:**

- **"answer"**: Detailed, human-like response.
- **"confidence"**: High / Medium / Low
- **"risk_flag"**: None / Low / Medium / High
- **"sentiment"**: Positive / Neutral / Negative
- **"reasoning_summary"**: 1-2 sentence explanation of how you derived the answer.

**Output Format:**

`+"```json"+`
{
  "responses": [
    {
      "stakeholder": "",
      "question": "",
      "answer": "",
      "confidence": "",
      "risk_flag": "",
      "sentiment": "",
      "reasoning_summary": ""
    }
  ]
}
`+"```"+`

Additional guidance:

Use transitional phrases and varied sentence structures to make responses flow naturally.
Avoid repetitive phrasing or overly technical jargon unless necessary.
When stating "Insufficient information," follow it with a brief explanation of why the information is critical.
Tailor the tone to match the context of the question (e.g., more cautious for risk-related questions, more optimistic for growth-related questions).`, companyDetails, questions)
}

// scoresPrompt asks an independent auditor persona to score the answers
// without rewriting them.
func scoresPrompt(questions, answers string) string {
	return fmt.Sprintf(`You are an independent AI auditor.

You are given structured question-answer data about a company.

Your role is NOT to rewrite answers.
Your role is to evaluate and score them objectively.

Stakeholder questions:
%s

Input:
%s

Your task:

For EACH response, evaluate:

1. Logical consistency (1-10)
2. Completeness (1-10)
3. Clarity (1-10)
4. Hallucination risk (Low / Medium / High)
5. Bias presence (None / Mild / Moderate / Strong)
6. Sentiment validation (Does the stated sentiment match the answer? Yes / No)
7. Risk exposure level (Low / Medium / High)

Additionally:
- Identify if the answer overstates certainty.
- Flag any speculative language.
- Detect internal contradictions.

Return strictly structured JSON in this format:
`+"```json"+`
{
  "evaluation_results": [
    {
      "stakeholder": "",
      "question": "",
      "scores": {
        "logical_consistency": 0,
        "completeness": 0,
        "clarity": 0
      },
      "hallucination_risk": "",
      "bias_level": "",
      "sentiment_alignment": "",
      "risk_exposure": "",
      "overconfidence_flag": true/false,
      "speculation_flag": true/false,
      "notes": ""
    }
  ],
  "overall_summary": {
    "average_logical_score": 0,
    "average_completeness_score": 0,
    "average_clarity_score": 0,
    "dominant_sentiment_trend": "",
    "overall_company_risk_signal": "",
    "model_behavior_observations": ""
  }
}
`+"```", questions, answers)
}
