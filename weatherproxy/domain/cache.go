package domain

import "time"

// Payload é o corpo JSON decodificado do provedor (ou o payload demo).
//
// Mantido como mapa genérico de propósito: o schema é do provedor e o proxy
// não valida além do necessário para cachear e anotar a resposta.
type Payload = map[string]any

// ResponseCache guarda o último payload bem-sucedido por localização.
//
// A chave é a localização em minúsculas; nenhuma outra normalização
// (espaços, pontuação) é aplicada aqui.
//
// Get retorna hit somente enquanto a idade for menor que o TTL. Entradas
// vencidas NÃO são removidas na consulta; ficam no mapa até serem
// sobrescritas pelo próximo Put bem-sucedido.
type ResponseCache interface {
	Get(key string) (p Payload, age time.Duration, ok bool)
	Put(key string, p Payload)
}
