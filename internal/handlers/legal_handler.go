package handlers

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
)

const legalPageHead = `<!DOCTYPE html>
<html lang="pt-BR"><head><meta charset="utf-8"><title>%s - CivicUX</title>
<meta name="viewport" content="width=device-width, initial-scale=1">
<style>body{font-family:-apple-system,BlinkMacSystemFont,sans-serif;max-width:800px;margin:0 auto;padding:20px;color:#333}h1{color:#1a1a1a}h2{color:#444;margin-top:30px}</style>
</head><body>
`

type LegalHandler struct{}

func NewLegalHandler() *LegalHandler {
	return &LegalHandler{}
}

func (h *LegalHandler) PrivacyPolicy(c *fiber.Ctx) error {
	return c.Type("html").SendString(fmt.Sprintf(legalPageHead, "Política de Privacidade") + `<h1>Política de Privacidade</h1>
<p>Última atualização: outubro de 2026</p>
<h2>Dados que coletamos</h2>
<p>Coletamos seu nome, e-mail e as informações de perfil que você decidir preencher. Ao enviar uma denúncia, registramos a foto, a descrição e a localização do problema.</p>
<h2>Como usamos seus dados</h2>
<p>Seus dados são usados para operar o CivicUX: autenticar sua conta, exibir suas denúncias e votos, calcular XP, CiviCoins e conquistas, e montar o ranking público.</p>
<h2>Inteligência artificial</h2>
<p>Fotos de denúncias, textos de proposições e perguntas ao Mentor Cívico são enviados a um provedor de IA apenas para gerar análises e resumos.</p>
<h2>Compartilhamento</h2>
<p>Não vendemos seus dados. Denúncias, votos e sua posição no ranking são públicos dentro da plataforma.</p>
<h2>Exclusão da conta</h2>
<p>Você pode excluir sua conta a qualquer momento. Seus votos, conquistas, resgates e denúncias são removidos.</p>
</body></html>`)
}

func (h *LegalHandler) TermsOfService(c *fiber.Ctx) error {
	return c.Type("html").SendString(fmt.Sprintf(legalPageHead, "Termos de Uso") + `<h1>Termos de Uso</h1>
<p>Última atualização: outubro de 2026</p>
<h2>Aceitação</h2>
<p>Ao usar o CivicUX, você concorda com estes termos.</p>
<h2>Conduta</h2>
<p>Envie apenas denúncias verdadeiras sobre problemas urbanos. Conteúdo ofensivo, dados de contato e links são bloqueados pelo filtro de conteúdo.</p>
<h2>Recompensas</h2>
<p>CiviCoins não têm valor monetário. Os vouchers dependem da disponibilidade dos parceiros.</p>
<h2>Encerramento</h2>
<p>Contas que violarem estes termos podem ser suspensas ou excluídas.</p>
</body></html>`)
}
