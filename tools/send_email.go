package tools

import (
	"encoding/json"
	"fmt"
	"io"
)

type SendEmailInput struct {
	Recipient string `json:"recipient" jsonschema_description:"Name or address of the person receiving the email."`
	Subject   string `json:"subject" jsonschema_description:"Subject line of the email."`
	Body      string `json:"body" jsonschema_description:"Full plain-text body of the email."`
}

const (
	sendEmailBanner = "--- SIMULATING EMAIL SEND ---"
	sendEmailFooter = "---------------------------"
)

var SendEmailInputSchema = GenerateSchema[SendEmailInput]()

// NewSendEmailDefinition returns the send_email tool printing its simulated
// sends to w.
func NewSendEmailDefinition(w io.Writer) ToolDefinition {
	return ToolDefinition{
		Name: "send_email",
		Description: `Sends an email to a specified recipient with a given subject and body.
This is a simulated email sending for demonstration purposes.`,
		InputSchema: SendEmailInputSchema,
		Function: func(input json.RawMessage) (string, error) {
			var in SendEmailInput
			if err := json.Unmarshal(input, &in); err != nil {
				return "", fmt.Errorf("invalid send_email arguments: %w", err)
			}
			return SendEmail(w, in.Recipient, in.Subject, in.Body), nil
		},
	}
}

// SendEmail prints a simulated send block to w and returns a confirmation.
// Inputs are not validated. It always succeeds; write errors on w are ignored.
func SendEmail(w io.Writer, recipient, subject, body string) string {
	_, _ = fmt.Fprintf(w, "\n%s\nTo: %s\nSubject: %s\nBody:\n%s\n%s\n\n",
		sendEmailBanner, recipient, subject, body, sendEmailFooter)
	return fmt.Sprintf("Email to %s with subject '%s' simulated successfully.", recipient, subject)
}
