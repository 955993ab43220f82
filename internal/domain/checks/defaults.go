package checks

var defaults = []Check{
	{
		ID:     "check1",
		Title:  "Duplicate Headings Check",
		Prompt: "Identify if any headings (like H1, H2, etc.) have the exact same text and appear more than once. If duplicates are found, list them and their counts. Otherwise, state that all headings are unique.",
	},
	{
		ID:     "check2",
		Title:  "Title Format Check",
		Prompt: `The main title must follow the format "SOW [Customer] - [Project]". State if the format is correct or not.`,
	},
	{
		ID:     "check3",
		Title:  "Language Check (English Only)",
		Prompt: "The entire document must be in English. If non-English text is found, state that and provide the non-English snippet. Otherwise, confirm it's all in English.",
	},
	{
		ID:     "check4",
		Title:  "Role Breakdown Table Check",
		Prompt: `Check if a "Role Breakdown" section or table exists. State if the table is found or not.`,
	},
	{
		ID:     "check5",
		Title:  "Fees Breakdown Table Validation",
		Prompt: `Check if a "Fees Breakdown" section or table exists. State if the fees section is found or not.`,
	},
	{
		ID:     "check6",
		Title:  "Customer Name Usage Check",
		Prompt: `First, identify the customer name from the title (the part between "SOW" and "-"). Then, count how many times that exact name appears in the document. It should be exactly 2. State the customer name, how many times it appeared, and if the count is correct.`,
	},
	{
		ID:     "check7",
		Title:  "Spelling, Grammar, & Formatting",
		Prompt: "Scan the document for spelling and grammar errors. Summarize the findings. If errors exist, list examples.",
	},
	{
		ID:     "check8",
		Title:  "SOW Start/End Date Check",
		Prompt: `Check for the presence of "Start Date" and "End Date". The start date must contain "Within 10 business days of signed and executed contract". Confirm if both dates are present and correctly formatted.`,
	},
	{
		ID:     "check9",
		Title:  "Bullet Points Quality Check",
		Prompt: "Check if all bullet points start with an action verb. If any bullet points do not start with an action verb, list them. Otherwise, confirm they are all correct.",
	},
}

// Defaults returns a fresh copy of the nine seeded checks.
func Defaults() []Check {
	return Clone(defaults)
}
