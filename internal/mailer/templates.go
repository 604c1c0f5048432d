package mailer

import (
	"fmt"
	"html"
	"strings"

	"github.com/ryankolean/rarefindtalent/internal/dto"
	"github.com/ryankolean/rarefindtalent/internal/entity"
)

// OwnerEmail builds the internal notification summarizing a new inquiry.
func OwnerEmail(from, ownerAddress string, req dto.InquiryRequest) Email {
	var fields strings.Builder
	writeField(&fields, "Full Name", req.FullName)
	writeField(&fields, "Email", fmt.Sprintf(`<a href="mailto:%s">%s</a>`, html.EscapeString(req.Email), html.EscapeString(req.Email)))
	if req.Phone != "" {
		writeField(&fields, "Phone", fmt.Sprintf(`<a href="tel:%s">%s</a>`, html.EscapeString(req.Phone), html.EscapeString(req.Phone)))
	}
	if req.CompanyName != "" {
		writeField(&fields, "Company", req.CompanyName)
	}
	if req.JobTitle != "" {
		writeField(&fields, "Job Title", req.JobTitle)
	}
	writeField(&fields, "Service Interest", entity.InquiryTypeLabel(req.InquiryType))
	if req.PreferredContact != "" {
		writeField(&fields, "Preferred Contact Method", req.PreferredContact)
	}
	if req.Urgency != "" {
		writeField(&fields, "Timeline", entity.UrgencyLabel(req.Urgency))
	}
	if req.Message != "" {
		writeField(&fields, "Message", strings.ReplaceAll(html.EscapeString(req.Message), "\n", "<br>"))
	}

	body := fmt.Sprintf(`<!DOCTYPE html>
<html>
  <head>
    <style>
      body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
      .container { max-width: 600px; margin: 0 auto; padding: 20px; }
      .header { background: linear-gradient(135deg, #0f172a 0%%, #1e293b 100%%); color: white; padding: 30px; text-align: center; border-radius: 8px 8px 0 0; }
      .content { background: #f8fafc; padding: 30px; border-radius: 0 0 8px 8px; }
      .field { margin-bottom: 20px; }
      .label { font-weight: bold; color: #0f172a; margin-bottom: 5px; }
      .value { color: #475569; }
      .footer { text-align: center; margin-top: 30px; color: #64748b; font-size: 14px; }
    </style>
  </head>
  <body>
    <div class="container">
      <div class="header">
        <h1 style="margin: 0; font-size: 28px;">New Contact Form Submission</h1>
      </div>
      <div class="content">
%s      </div>
      <div class="footer">
        <p>This email was sent from your Rare Find Talent website contact form.</p>
      </div>
    </div>
  </body>
</html>`, fields.String())

	return Email{
		From:    from,
		To:      []string{ownerAddress},
		Subject: fmt.Sprintf("New Contact Form Submission from %s", req.FullName),
		HTML:    body,
	}
}

// SubmitterEmail builds the acknowledgement sent to the visitor.
func SubmitterEmail(from string, req dto.InquiryRequest) Email {
	body := fmt.Sprintf(`<!DOCTYPE html>
<html>
  <head>
    <style>
      body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
      .container { max-width: 600px; margin: 0 auto; padding: 20px; }
      .header { background: linear-gradient(135deg, #0f172a 0%%, #1e293b 100%%); color: white; padding: 30px; text-align: center; border-radius: 8px 8px 0 0; }
      .content { background: #f8fafc; padding: 30px; border-radius: 0 0 8px 8px; }
      .message { color: #475569; margin-bottom: 20px; }
      .footer { text-align: center; margin-top: 30px; color: #64748b; font-size: 14px; }
    </style>
  </head>
  <body>
    <div class="container">
      <div class="header">
        <h1 style="margin: 0; font-size: 28px;">Thank You for Your Inquiry</h1>
      </div>
      <div class="content">
        <p class="message">Dear %s,</p>
        <p class="message">Thank you for reaching out to Rare Find Talent. We've received your inquiry regarding %s.</p>
        <p class="message">We'll review your information and get back to you within 24 hours. In the meantime, feel free to explore our services and success stories on our website.</p>
        <p class="message">Best regards,<br>Krysta<br>Rare Find Talent</p>
      </div>
      <div class="footer">
        <p>Rare Find Talent | Connecting Top Talent with the Right Opportunities</p>
        <p><a href="mailto:contact@rarefindtalent.com">contact@rarefindtalent.com</a></p>
      </div>
    </div>
  </body>
</html>`, html.EscapeString(req.FullName), html.EscapeString(entity.InquiryTypeLabel(req.InquiryType)))

	return Email{
		From:    from,
		To:      []string{req.Email},
		Subject: "Thank You for Contacting Rare Find Talent",
		HTML:    body,
	}
}

func writeField(b *strings.Builder, label, value string) {
	if !strings.Contains(value, "<") {
		value = html.EscapeString(value)
	}
	fmt.Fprintf(b, `        <div class="field">
          <div class="label">%s:</div>
          <div class="value">%s</div>
        </div>
`, label, value)
}
