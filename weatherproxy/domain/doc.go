// Package domain define contratos e tipos de domínio para a política de
// atendimento do proxy de clima: rate limit, cache de respostas, fetch no
// provedor e estatísticas.
//
// Este pacote não depende de net/http nem de implementações concretas.
// A intenção é permitir testes de unidade puros e desacoplar a política
// de detalhes de infraestrutura.
package domain
