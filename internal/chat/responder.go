// Package chat answers short natural-language commands against the ledger
// using keyword rules: deletion requests and finance summaries.
package chat

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/dpereira/financas/internal/records"
)

var (
	deleteWords   = []string{"delete", "deletar", "remover", "apagar", "excluir"}
	analysisWords = []string{"como andam", "analisar", "dicas", "sugestões", "estou bem", "relatório", "resumo"}
	spendWords    = []string{"gastei", "gasto", "comprei", "paguei"}
	incomeWords   = []string{"entrada", "salário", "receita", "ganhei"}
)

// Ledger is the slice of the record store the responder needs
type Ledger interface {
	DeleteByDescription(ctx context.Context, fragment string) (int64, error)
	GetSummary(ctx context.Context) (records.Summary, error)
}

// Responder answers chat messages
type Responder struct {
	ledger Ledger
	log    zerolog.Logger
}

// NewResponder creates a new chat responder
func NewResponder(ledger Ledger, log zerolog.Logger) *Responder {
	return &Responder{ledger: ledger, log: log}
}

// Respond matches a message against the keyword rules and produces a reply.
// Unrecognized messages get a usage hint.
func (r *Responder) Respond(ctx context.Context, message string) (string, error) {
	msg := strings.ToLower(strings.TrimSpace(message))
	if msg == "" {
		return "", fmt.Errorf("empty message")
	}

	switch {
	case containsAny(msg, deleteWords):
		return r.handleDelete(ctx, msg), nil
	case containsAny(msg, analysisWords):
		return r.handleAnalysis(ctx), nil
	case containsAny(msg, spendWords):
		return `Para adicionar gastos, use o formulário de "Gastos".`, nil
	case containsAny(msg, incomeWords):
		return `Para adicionar entradas, use o formulário de "Entradas".`, nil
	default:
		return `Comando não reconhecido. Tente: "delete [item]" ou "como andam minhas contas?"`, nil
	}
}

// handleDelete strips the deletion verbs and removes every record whose
// description contains what is left.
func (r *Responder) handleDelete(ctx context.Context, msg string) string {
	fragment := msg
	for _, word := range deleteWords {
		fragment = strings.ReplaceAll(fragment, word, "")
	}
	fragment = strings.TrimSpace(fragment)

	deleted, err := r.ledger.DeleteByDescription(ctx, fragment)
	if err != nil {
		r.log.Error().Err(err).Str("fragment", fragment).Msg("Chat deletion failed")
		return "Erro ao deletar: " + err.Error()
	}
	if deleted == 0 {
		return fmt.Sprintf("Não encontrei nenhum item com %q", fragment)
	}
	return fmt.Sprintf("%d item(ns) contendo %q foram removidos!", deleted, fragment)
}

func (r *Responder) handleAnalysis(ctx context.Context) string {
	summary, err := r.ledger.GetSummary(ctx)
	if err != nil {
		r.log.Error().Err(err).Msg("Chat analysis failed")
		return "Erro na análise: " + err.Error()
	}

	body := fmt.Sprintf("Entradas: R$ %s\nGastos: R$ %s\nSaldo: R$ %s",
		summary.Entries.StringFixed(2),
		summary.Expenses.StringFixed(2),
		summary.Balance.StringFixed(2))

	switch {
	case summary.Balance.IsPositive():
		return "Situação positiva!\n\n" + body
	case summary.Balance.Equal(decimal.Zero):
		return "Situação equilibrada.\n\n" + body
	default:
		return "Atenção! Saldo negativo.\n\n" + body
	}
}

func containsAny(msg string, words []string) bool {
	for _, word := range words {
		if strings.Contains(msg, word) {
			return true
		}
	}
	return false
}
