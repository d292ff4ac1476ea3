package domain

import (
	"context"
	"fmt"
)

// Fetcher emite a chamada HTTP ao provedor de clima e normaliza erros.
//
// A chave de API entra por parâmetro porque ela é validada a cada requisição
// pela camada de aplicação, não na subida do processo.
type Fetcher interface {
	Fetch(ctx context.Context, apiKey, location string) (Payload, error)
}

// UpstreamError carrega status/mensagem/código vindos do provedor.
//
// Falhas de transporte (rede, corpo malformado) são normalizadas para
// {Status: 500, Message: "fetch failed"}.
type UpstreamError struct {
	Status  int
	Message string
	Code    int
}

func (e *UpstreamError) Error() string {
	if e.Code != 0 {
		return fmt.Sprintf("upstream %d: %s (code %d)", e.Status, e.Message, e.Code)
	}
	return fmt.Sprintf("upstream %d: %s", e.Status, e.Message)
}
