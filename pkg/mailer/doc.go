// Package mailer renders templated emails and hands them to a delivery
// provider.
//
// # Architecture
//
//   - Sender: provider adapter (see the resend and ses subpackages, and LogSender)
//   - StatusChecker: optional; senders that deliver asynchronously report status
//   - Dispatcher: submits an Email and polls the provider until a terminal status
//   - Renderer: markdown templates with YAML frontmatter to subject, text and HTML
//   - Mailer: Renderer plus Dispatcher
//
// # Usage
//
//	sender := resend.New(resend.Config{APIKey: os.Getenv("RESEND_API_KEY")})
//	dispatcher := mailer.NewDispatcher(sender,
//	    mailer.WithPolling(time.Second, 30),
//	    mailer.WithDedupe(cache.NewMemory[mailer.Result](), 24*time.Hour),
//	)
//	m := mailer.New(dispatcher, mailer.NewRenderer(templates.FS), mailer.Config{})
//
//	res, err := m.Send(ctx, mailer.SendParams{
//	    To:       "user@example.com",
//	    From:     "news@example.com",
//	    Template: "welcome.md",
//	    Data:     map[string]any{"Name": name},
//	    HTMLData: map[string]any{"Name": template.HTML(sanitizer.EscapeHTML(name))},
//	})
//
// # Templates
//
// Templates are markdown files with YAML frontmatter:
//
//	---
//	Subject: Welcome {{.Name}}
//	Tags: [welcome]
//	---
//
//	Hello **{{.Name}}**, thanks for subscribing.
//
// The markdown is converted to HTML when the template is loaded, so values are
// substituted after conversion and never interpreted as markdown. Template
// actions in the body must not use string literals.
//
// # Delivery
//
// Dispatcher.Send blocks until the provider reports sent, delivered, bounced,
// complained, failed or canceled. The wait is bounded: when the poll budget is
// spent ErrDeliveryPending is returned. Failed submissions are not retried.
//
// Provider failures are *ProviderError values; [Classify] sorts them into
// credential, request and domain problems.
package mailer
