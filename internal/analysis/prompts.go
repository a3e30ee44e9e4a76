package analysis

// insightsPrompt is the instruction block for the financial-health analysis.
// The schema must stay in lockstep with domain.AnalysisResult: the dashboard
// renders whatever comes back here.
func insightsPrompt() string {
	return "You are a financial analyst reviewing a reconciled bank statement.\n" +
		"The next message is a JSON document with the statement summary and its\n" +
		"finalized transactions.\n\n" +
		"Task:\n" +
		"- Analyze income, spending, balance trends, cash flow stability,\n" +
		"  loan affordability and risk signals across the statement period.\n" +
		"- Base every number strictly on the provided transactions. Do not invent data.\n" +
		"- Output STRICT JSON only, a single object with this exact shape:\n\n" +
		"{\n" +
		"  \"income_analysis\": {\n" +
		"    \"total_money_in\": number,\n" +
		"    \"average_monthly_income\": number,\n" +
		"    \"income_sources\": [{\"description_pattern\": string, \"occurrences\": number, \"average_amount\": number}]\n" +
		"  },\n" +
		"  \"spending_behavior\": {\n" +
		"    \"total_money_out\": number,\n" +
		"    \"average_monthly_expenses\": number,\n" +
		"    \"top_spending_categories\": [{\"category\": string, \"total_spent\": number}],\n" +
		"    \"high_ticket_transactions\": {\"threshold\": number, \"count\": number}\n" +
		"  },\n" +
		"  \"balance_trends\": {\n" +
		"    \"opening_balance\": number,\n" +
		"    \"closing_balance\": number,\n" +
		"    \"average_monthly_balance\": number,\n" +
		"    \"minimum_balance\": number,\n" +
		"    \"overdraft_occurred\": boolean\n" +
		"  },\n" +
		"  \"cash_flow_stability\": {\n" +
		"    \"net_cash_flow\": number,\n" +
		"    \"positive_cash_flow\": boolean,\n" +
		"    \"monthly_variability\": {\"income_std_dev\": number, \"expenses_std_dev\": number},\n" +
		"    \"irregular_activity\": [{\"type\": string, \"month\": string, \"details\": string}]\n" +
		"  },\n" +
		"  \"loan_affordability_indicators\": {\n" +
		"    \"estimated_disposable_income\": number,\n" +
		"    \"months_of_expense_coverage\": number,\n" +
		"    \"savings_behavior\": string\n" +
		"  },\n" +
		"  \"risk_flags\": {\n" +
		"    \"frequent_low_balance\": boolean,\n" +
		"    \"suspicious_transaction_patterns\": [{\"pattern\": string, \"occurrences\": number, \"flagged_as\": string}],\n" +
		"    \"use_of_credit\": {\"present\": boolean}\n" +
		"  }\n" +
		"}\n\n" +
		"Return ONLY valid raw JSON.\n" +
		"Do NOT wrap the response in code fences.\n" +
		"Do NOT use ```json or any Markdown.\n"
}
