// Package email provides a provider-agnostic interface for sending
// transactional emails, with a Postmark implementation for production and a
// disk-based DevSender for local development.
//
// The package is built around the EmailSender interface so providers can be
// swapped without touching the delivery code that uses them. All
// implementations validate parameters before sending.
//
// # Usage
//
// Basic email sending with Postmark:
//
//	cfg := email.Config{
//	    PostmarkServerToken:  "your-server-token",
//	    PostmarkAccountToken: "your-account-token",
//	    SenderEmail:          "noreply@example.com",
//	    ReplyToEmail:         "support@example.com",
//	}
//
//	client, err := email.NewPostmarkClient(cfg)
//	if err != nil {
//	    // Handle configuration error
//	}
//
//	err = client.SendEmail(ctx, email.SendEmailParams{
//	    SendTo:   "user@example.com",
//	    Subject:  "New audit available",
//	    BodyHTML: htmlContent,
//	    Tag:      "notification", // optional, for analytics
//	})
//
// Development mode saves emails locally:
//
//	devSender := email.NewDevSender("./email-output")
//	err := devSender.SendEmail(ctx, params)
//	// Creates timestamped HTML and JSON files in ./email-output/
package email
