package mail

import (
	"fmt"
	"html/template"
	"strings"
)

func renderActivation(name, link string) (string, error) {
	tmpl := `<!DOCTYPE html>
<html>
<head>
	<meta charset="UTF-8">
	<title>Confirma tu cuenta</title>
</head>
<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333;">
	<div style="max-width: 600px; margin: 0 auto; padding: 20px;">
		<h1 style="color: #1a3e6e;">Confirma tu cuenta</h1>
		<p>Hola{{if .Name}} {{.Name}}{{end}},</p>
		<p>Gracias por registrarte. Pulsa el botón para activar tu cuenta:</p>
		<div style="text-align: center; margin: 30px 0;">
			<a href="{{.Link}}" style="background-color: #1a3e6e; color: white; padding: 12px 30px; text-decoration: none; border-radius: 5px; display: inline-block;">Activar cuenta</a>
		</div>
		<p>O copia este enlace en tu navegador:</p>
		<p style="word-break: break-all; color: #666;">{{.Link}}</p>
		<p>El enlace caduca en 24 horas.</p>
		<p>Si no has creado esta cuenta, ignora este mensaje.</p>
		<hr style="border: none; border-top: 1px solid #eee; margin: 20px 0;">
		<p style="color: #999; font-size: 12px;">Mensaje automático, no respondas a este correo.</p>
	</div>
</body>
</html>`
	return render("activation", tmpl, struct{ Name, Link string }{name, link})
}

func renderPasswordReset(name, code, link string) (string, error) {
	tmpl := `<!DOCTYPE html>
<html>
<head>
	<meta charset="UTF-8">
	<title>Recupera tu contraseña</title>
</head>
<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333;">
	<div style="max-width: 600px; margin: 0 auto; padding: 20px;">
		<h1 style="color: #1a3e6e;">Recupera tu contraseña</h1>
		<p>Hola{{if .Name}} {{.Name}}{{end}},</p>
		<p>Tu código de recuperación es:</p>
		<div style="text-align: center; margin: 30px 0;">
			<span style="font-size: 32px; letter-spacing: 8px; font-weight: bold;">{{.Code}}</span>
		</div>
		<p>Introdúcelo en la aplicación, o abre este enlace desde tu móvil:</p>
		<p style="word-break: break-all; color: #666;"><a href="{{.Link}}">{{.Link}}</a></p>
		<p>El código caduca en 10 minutos.</p>
		<p>Si no has pedido recuperar la contraseña, ignora este mensaje; tu contraseña no cambia.</p>
		<hr style="border: none; border-top: 1px solid #eee; margin: 20px 0;">
		<p style="color: #999; font-size: 12px;">Mensaje automático, no respondas a este correo.</p>
	</div>
</body>
</html>`
	return render("password_reset", tmpl, struct{ Name, Code, Link string }{name, code, link})
}

func renderDeletion(name, link string) (string, error) {
	tmpl := `<!DOCTYPE html>
<html>
<head>
	<meta charset="UTF-8">
	<title>Eliminación de cuenta</title>
</head>
<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333;">
	<div style="max-width: 600px; margin: 0 auto; padding: 20px;">
		<h1 style="color: #b71c1c;">Eliminación de cuenta</h1>
		<p>Hola{{if .Name}} {{.Name}}{{end}},</p>
		<p>Hemos recibido una solicitud para eliminar tu cuenta. Esta acción es permanente.</p>
		<div style="text-align: center; margin: 30px 0;">
			<a href="{{.Link}}" style="background-color: #b71c1c; color: white; padding: 12px 30px; text-decoration: none; border-radius: 5px; display: inline-block;">Eliminar mi cuenta</a>
		</div>
		<p>O copia este enlace en tu navegador:</p>
		<p style="word-break: break-all; color: #666;">{{.Link}}</p>
		<p>El enlace caduca en 1 hora. Si no has pedido eliminar tu cuenta, ignora este mensaje.</p>
		<hr style="border: none; border-top: 1px solid #eee; margin: 20px 0;">
		<p style="color: #999; font-size: 12px;">Mensaje automático, no respondas a este correo.</p>
	</div>
</body>
</html>`
	return render("deletion", tmpl, struct{ Name, Link string }{name, link})
}

func render(name, tmpl string, data any) (string, error) {
	t, err := template.New(name).Parse(tmpl)
	if err != nil {
		return "", fmt.Errorf("failed to parse template: %w", err)
	}
	var buf strings.Builder
	if err := t.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}
	return buf.String(), nil
}
