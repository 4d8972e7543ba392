package constvars

const (
	RegexNonDigit = `\D`
	RegexCPF      = `^\d{11}$`
	RegexTimeHHMM = `^([01]\d|2[0-3]):[0-5]\d$`
)
