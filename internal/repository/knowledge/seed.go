package knowledge

import (
	"context"

	"github.com/quetzal-chat/quetzal/internal/domain"
)

// DefaultFacts is the starter knowledge base loaded into an empty database.
// Keywords are matched as substrings of the user's question.
func DefaultFacts() []domain.KnowledgeFact {
	return []domain.KnowledgeFact{
		{Keyword: "pulgón", Answer: "Para el pulgón aplica jabón potásico o aceite de neem cada 7 días."},
		{Keyword: "pulgon", Answer: "Para el pulgón aplica jabón potásico o aceite de neem cada 7 días."},
		{Keyword: "mosca blanca", Answer: "Coloca trampas cromáticas amarillas y aplica aceite de neem al atardecer."},
		{Keyword: "araña roja", Answer: "Aumenta la humedad y aplica azufre mojable; la araña roja prospera en ambiente seco."},
		{Keyword: "mildiu", Answer: "Retira las hojas afectadas y aplica caldo bordelés; evita mojar el follaje al regar."},
		{Keyword: "oídio", Answer: "Para el oídio espolvorea azufre en horas frescas y mejora la ventilación del cultivo."},
		{Keyword: "riego", Answer: "Riega temprano en la mañana y deja secar la capa superficial entre riegos."},
		{Keyword: "abono", Answer: "Usa compost maduro al inicio del ciclo y refuerza con humus de lombriz cada mes."},
		{Keyword: "semilla", Answer: "Remoja las semillas 12 horas antes de sembrar para acelerar la germinación."},
	}
}

// EnsureSeeded loads DefaultFacts when the fact table is empty, so a fresh
// install can answer common questions without the external service.
func EnsureSeeded(ctx context.Context, repo KnowledgeRepository) error {
	count, err := repo.Count(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	return repo.CreateInBatch(ctx, DefaultFacts())
}
