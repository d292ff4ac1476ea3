// Package application contém os casos de uso da política de atendimento:
// rate limit -> cache -> chave de API -> fetch no provedor, além do payload
// demo e do limite de concorrência.
//
// Ele depende apenas do pacote domain e não conhece net/http.
// Ex.: Service.Serve(ctx, location, client) retorna um Result (status + corpo).
package application
