package notification

import (
	"fmt"
	"strings"
)

// VerificationCode builds the WhatsApp text carrying a login code. manager
// selects the "(Gestor)" label, otherwise "(Cidadão)".
func VerificationCode(code string, manager bool) string {
	label := "(Cidadão)"
	if manager {
		label = "(Gestor)"
	}
	var b strings.Builder
	b.WriteString("🔐 *Ilumina - Código de Verificação*\n\n")
	fmt.Fprintf(&b, "Seu código de acesso %s é: *%s*\n\n", label, code)
	b.WriteString("⏰ Válido por 10 minutos\n")
	b.WriteString("🔒 Não compartilhe este código")
	return b.String()
}
