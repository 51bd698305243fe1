package libs

import (
	"fmt"
	"time"

	"go.uber.org/zap"
	"gopkg.in/gomail.v2"
)

const (
	welcomeFromName = "Admissions Office"
	welcomeSiteURL  = "https://gcuf.edu.pk/"
	welcomePhone    = "+92 301 9201234"

	smtpHost = "smtp.gmail.com"
	smtpPort = 587
)

// Mailer sends the admissions welcome email through the Gmail relay using
// an app password. Sends are best-effort: the caller reports the outcome
// but never treats a failure as its own.
type Mailer struct {
	user       string
	password   string
	dial       func(m *gomail.Message) error
	retryDelay time.Duration
}

func NewMailer(user, appPassword string) *Mailer {
	dialer := gomail.NewDialer(smtpHost, smtpPort, user, appPassword)
	return &Mailer{
		user:       user,
		password:   appPassword,
		dial:       func(m *gomail.Message) error { return dialer.DialAndSend(m) },
		retryDelay: 2 * time.Second,
	}
}

// Configured reports whether relay credentials were provided.
func (m *Mailer) Configured() bool {
	return m != nil && m.user != "" && m.password != ""
}

// SendWelcome sends the admission-confirmed email. One retry after a short
// pause; the second failure is returned to the caller for reporting only.
func (m *Mailer) SendWelcome(toEmail, studentName, department string) error {
	if !m.Configured() {
		return fmt.Errorf("mail relay not configured")
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", msg.FormatAddress(m.user, welcomeFromName))
	msg.SetHeader("To", toEmail)
	msg.SetHeader("Subject", welcomeSubject(department))
	msg.SetBody("text/plain", welcomeText(studentName, department))
	msg.AddAlternative("text/html", welcomeHTML(studentName, department))

	err := m.dial(msg)
	if err != nil {
		zap.S().Warnw("welcome email failed, retrying once", "to", toEmail, "error", err)
		time.Sleep(m.retryDelay)
		err = m.dial(msg)
	}
	if err != nil {
		return fmt.Errorf("send welcome email: %w", err)
	}

	zap.S().Infow("welcome email sent", "to", toEmail)
	return nil
}

func welcomeSubject(department string) string {
	if department != "" {
		return fmt.Sprintf("Welcome! You are added in %s", department)
	}
	return "Welcome to Admissions"
}

func welcomeText(name, department string) string {
	if name == "" {
		name = "Student"
	}
	deptLine := "Your enrollment has been created.\n"
	if department != "" {
		deptLine = fmt.Sprintf("You are added in the %s department.\n", department)
	}
	return fmt.Sprintf(
		"Hi %s,\n\n"+
			"%s"+
			"Next steps:\n"+
			"- Check your student portal for schedule and materials\n"+
			"- Attend orientation (you will receive details)\n"+
			"- Reply to this email if you have questions\n\n"+
			"Regards,\n%s\n%s\n%s\n",
		name, deptLine, welcomeFromName, welcomePhone, welcomeSiteURL,
	)
}

func welcomeHTML(name, department string) string {
	if name == "" {
		name = "Student"
	}
	deptLine := "Your enrollment has been <b>created</b> successfully."
	if department != "" {
		deptLine = fmt.Sprintf("You have been <b>successfully added</b> to the <b>%s</b> department.", department)
	}
	return fmt.Sprintf(`<!doctype html>
<html>
  <body style="margin:0;padding:0;background:#f4f5f7;font-family:Arial,Helvetica,sans-serif;color:#222;">
    <div style="max-width:640px;margin:0 auto;background:#ffffff;border-radius:10px;overflow:hidden;">
      <div style="padding:18px 22px;background:#0d6efd;">
        <h1 style="margin:0;color:#ffffff;font-size:22px;">GCUF Admissions</h1>
        <p style="margin:6px 0 0;color:#dbe8ff;font-size:13px;">Congratulations — Your Admission Is Confirmed</p>
      </div>
      <div style="padding:24px 22px;">
        <p style="margin:0 0 10px;font-size:15px;">Hi %s,</p>
        <p style="margin:0 0 10px;font-size:15px;">%s Welcome aboard!</p>
        <div style="background:#f8fafc;border:1px solid #e8eef5;border-radius:8px;padding:12px;margin-top:12px;">
          <div style="font-weight:bold;margin-bottom:6px;">Next Steps</div>
          <ol style="margin:6px 0 0 18px;padding:0;font-size:14px;line-height:1.6;color:#333;">
            <li>Log in to the student portal to view your schedule and course materials.</li>
            <li>Attend the orientation session (date/time will be shared on the portal).</li>
            <li>Complete any pending verifications or fee submissions, if applicable.</li>
          </ol>
        </div>
        <div style="text-align:center;margin:16px 0 8px;">
          <a href="%s" style="display:inline-block;background:#0d6efd;color:#ffffff;text-decoration:none;padding:14px 22px;border-radius:8px;font-weight:bold;">Open Student Portal</a>
        </div>
      </div>
      <div style="padding:16px 22px;background:#f6f7f9;font-size:12px;color:#555;">
        <div style="margin-bottom:6px;"><b>GCUF Admissions</b></div>
        <div>Website: <a href="%s" style="color:#0d6efd;text-decoration:none;">%s</a></div>
        <div>Phone: %s</div>
      </div>
    </div>
  </body>
</html>`, name, deptLine, welcomeSiteURL, welcomeSiteURL, welcomeSiteURL, welcomePhone)
}
