package mail

import "fmt"

func verificationHTML(code string) string {
	return fmt.Sprintf(`<div style="font-family:sans-serif;max-width:480px">
<h2>Verify your email</h2>
<p>Enter this code in the app to verify your email address:</p>
<p style="font-size:28px;letter-spacing:6px;font-weight:bold">%s</p>
<p>The code expires in 24 hours. If you didn't create an account, ignore this email.</p>
</div>`, code)
}

func welcomeHTML(name string) string {
	return fmt.Sprintf(`<div style="font-family:sans-serif;max-width:480px">
<h2>Welcome to Plateful, %s!</h2>
<p>Your email is verified. Browse restaurants and place your first order.</p>
</div>`, name)
}

func passwordResetHTML(resetURL string) string {
	return fmt.Sprintf(`<div style="font-family:sans-serif;max-width:480px">
<h2>Reset your password</h2>
<p>Click the link below to choose a new password. The link expires in 1 hour.</p>
<p><a href="%s">%s</a></p>
<p>If you didn't request this, ignore this email.</p>
</div>`, resetURL, resetURL)
}

func resetSuccessHTML() string {
	return `<div style="font-family:sans-serif;max-width:480px">
<h2>Password changed</h2>
<p>Your password was reset successfully. If this wasn't you, contact support immediately.</p>
</div>`
}
