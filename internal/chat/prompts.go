package chat

import "fmt"

func groundingPrompt(statementJSON string) string {
	return fmt.Sprintf(`You are a financial assistant. The user uploaded a bank statement, and it was extracted into the JSON below. Answer the user's questions strictly based on this statement. If a question cannot be answered from the statement, say so rather than guessing. Keep answers concise and use plain language.

Bank statement JSON:
%s`, statementJSON)
}
