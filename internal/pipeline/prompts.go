package pipeline

// statementExtractionPrompt builds the instruction block sent to the model
// alongside the PDF bytes. The schema mirrors the BankStatement wire contract;
// the strictness rules keep the response machine-parseable.
func statementExtractionPrompt() string {
	return "You are a financial statement parser for PDF bank statements.\n\n" +
		"Task:\n" +
		"- Parse the attached bank statement, including ALL transactions.\n" +
		"- Output STRICT JSON only (no comments, no trailing commas, no extra text).\n" +
		"- Output a single JSON object.\n\n" +
		"The object must have these fields:\n" +
		"- \"account_number\": string (empty string if not found)\n" +
		"- \"period_start\": string, the statement period start date as printed\n" +
		"- \"period_end\": string, the statement period end date as printed\n" +
		"- \"opening_balance\": number or null (the balance before the first transaction)\n" +
		"- \"closing_balance\": number or null (the balance after the last transaction)\n" +
		"- \"money_in\": number or null (total credited over the period, if stated)\n" +
		"- \"money_out\": number or null (total debited over the period, if stated)\n" +
		"- \"currency\": string or null (e.g. \"GBP\")\n" +
		"- \"transactions\": array of objects, in statement order\n\n" +
		"Each transaction object must have:\n" +
		"- \"date\": string, as printed in the statement\n" +
		"- \"description\": string\n" +
		"- \"credit\": number or null (money IN for this transaction, never negative)\n" +
		"- \"debit\": number or null (money OUT for this transaction, never negative)\n" +
		"- \"balance\": number (the running balance after this transaction)\n\n" +
		"Rules:\n" +
		"- If the statement has a single signed amount column, split it: positive\n" +
		"  amounts go to \"credit\", the absolute value of negative amounts to \"debit\".\n" +
		"- If a value cannot be determined, use null. Never invent numbers.\n" +
		"- Keep transactions in the order they appear in the statement.\n\n" +
		"Return ONLY valid raw JSON.\n" +
		"Do NOT wrap the response in code fences.\n" +
		"Do NOT use ```json or any Markdown.\n" +
		"Output must begin with \"{\" and end with \"}\".\n"
}
