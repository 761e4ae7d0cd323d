package mailer

import "fmt"

const layout = `<div style="font-family:Arial,sans-serif;max-width:560px;margin:0 auto;padding:24px;border:1px solid #eee;border-radius:12px">
<h2 style="color:#9B5DE5">Gramátike</h2>
%s
<p style="color:#777;font-size:12px">Se você não esperava este e-mail, pode ignorá-lo.</p>
</div>`

func wrap(body string) string { return fmt.Sprintf(layout, body) }

func WelcomeBody(username string) string {
	return wrap(fmt.Sprintf(`<p>Olá, <strong>%s</strong>!</p>
<p>Boas-vindas ao Gramátike, seu espaço de linguagem inclusiva e aprendizado.</p>`, username))
}

func VerifyBody(username, link string) string {
	return wrap(fmt.Sprintf(`<p>Olá, <strong>%s</strong>!</p>
<p>Confirme seu e-mail clicando no link abaixo (válido por 24 horas):</p>
<p><a href="%s">Confirmar e-mail</a></p>`, username, link))
}

func ResetBody(username, link string) string {
	return wrap(fmt.Sprintf(`<p>Olá, <strong>%s</strong>!</p>
<p>Para redefinir sua senha, use o link abaixo (válido por 1 hora):</p>
<p><a href="%s">Redefinir senha</a></p>`, username, link))
}

func ChangeEmailBody(username, link string) string {
	return wrap(fmt.Sprintf(`<p>Olá, <strong>%s</strong>!</p>
<p>Recebemos um pedido para usar este endereço como seu novo e-mail. Confirme no link abaixo (válido por 24 horas):</p>
<p><a href="%s">Confirmar novo e-mail</a></p>`, username, link))
}

func SupportReplyBody(nome, resposta string) string {
	return wrap(fmt.Sprintf(`<p>Olá, <strong>%s</strong>!</p>
<p>Sua solicitação de suporte foi respondida:</p>
<blockquote style="border-left:3px solid #9B5DE5;padding-left:12px;color:#444">%s</blockquote>`, nome, resposta))
}
