package constvars

const (
	EmailWelcomeSubjectMessage = "Bem-vindo(a) ao seu plano de telemedicina"
	EmailWelcomeHTMLFormat     = "<html><body>Olá, <strong>%s</strong>!<br><br>Sua conta foi criada.<br>E-mail: %s<br>Senha temporária: <strong>%s</strong><br><br>Altere sua senha no primeiro acesso.</body></html>"
)

const (
	TemporaryPasswordLength  = 12
	TemporaryPasswordCharset = "abcdefghijkmnopqrstuvwxyzABCDEFGHJKLMNPQRSTUVWXYZ23456789!@#$%"
)
