// Package aggregation calcula as estatísticas do painel e os totais de
// boletim a partir de uma fotografia consistente das tabelas. Nada aqui
// acessa o banco: quem chama é responsável por ler tudo numa única
// transação e entregar o Snapshot pronto.
package aggregation

import (
	"fmt"

	"github.com/pimenteljoao44/sistema-ovitrampas/internal/models"
)

// Snapshot é o conjunto de linhas lidas numa mesma transação.
type Snapshot struct {
	Municipalities []models.Municipality
	Traps          []models.Trap
	Collections    []models.Collection
}

// DashboardStats são os números dos cartões do painel.
type DashboardStats struct {
	ActiveMunicipalities int     `json:"activeMunicipalities"`
	InstalledTraps       int     `json:"installedTraps"`
	PositiveTraps        int     `json:"positiveTraps"`
	CompletedCollections int     `json:"completedCollections"`
	PositivityRate       float64 `json:"positivityRate"`
}

// BulletinTotals são os totais gravados no boletim.
// PositivePaddles + NegativePaddles == TotalTraps sempre.
type BulletinTotals struct {
	TotalTraps      int `json:"total_armadilhas"`
	NegativePaddles int `json:"paletas_negativas"`
	PositivePaddles int `json:"paletas_positivas"`
	TotalEggs       int `json:"total_ovos"`
}

// InputError indica um escopo inconsistente, por exemplo uma coleta que
// aponta para uma armadilha fora do conjunto recebido.
type InputError struct {
	Reason       string
	TrapID       uint
	CollectionID uint
}

func (e *InputError) Error() string {
	switch {
	case e.CollectionID != 0:
		return fmt.Sprintf("escopo inconsistente: %s (coleta %d, ovitrampa %d)", e.Reason, e.CollectionID, e.TrapID)
	case e.TrapID != 0:
		return fmt.Sprintf("escopo inconsistente: %s (ovitrampa %d)", e.Reason, e.TrapID)
	default:
		return "escopo inconsistente: " + e.Reason
	}
}

// Dashboard calcula as estatísticas do painel. Com o snapshot vazio todos
// os contadores são zero.
//
// installedTraps conta só armadilhas ativas e positiveTraps conta armadilhas
// ativas distintas com ao menos uma coleta com ovos, para que uma armadilha
// positiva nas duas leituras não seja contada duas vezes.
func Dashboard(s Snapshot) DashboardStats {
	var st DashboardStats

	for _, m := range s.Municipalities {
		if m.Active {
			st.ActiveMunicipalities++
		}
	}

	active := make(map[uint]bool, len(s.Traps))
	for _, t := range s.Traps {
		if t.Active {
			active[t.ID] = true
			st.InstalledTraps++
		}
	}

	positive := make(map[uint]struct{})
	for _, c := range s.Collections {
		if !c.CollectedAt.IsZero() {
			st.CompletedCollections++
		}
		if c.Positive() && active[c.TrapID] {
			positive[c.TrapID] = struct{}{}
		}
	}
	st.PositiveTraps = len(positive)
	st.PositivityRate = PositivityRate(st.InstalledTraps, st.PositiveTraps)

	return st
}

// PositivityRate devolve o percentual (0 a 100) de armadilhas positivas.
// Sem armadilhas o índice é 0.
func PositivityRate(totalTraps, positiveTraps int) float64 {
	if totalTraps <= 0 {
		return 0
	}
	return float64(positiveTraps) * 100 / float64(totalTraps)
}

// DeriveBulletinTotals classifica cada armadilha do escopo e soma os ovos
// de todas as coletas (primeira e segunda leitura). Armadilha sem coleta
// conta como negativa.
func DeriveBulletinTotals(traps []models.Trap, collections []models.Collection) (BulletinTotals, error) {
	positive, err := classify(traps, collections)
	if err != nil {
		return BulletinTotals{}, err
	}

	totals := BulletinTotals{TotalTraps: len(traps)}
	for _, t := range traps {
		if positive[t.ID] {
			totals.PositivePaddles++
		} else {
			totals.NegativePaddles++
		}
	}
	for _, c := range collections {
		totals.TotalEggs += c.EggCount
	}
	return totals, nil
}

// classify devolve, para cada armadilha do escopo, se ela é positiva.
func classify(traps []models.Trap, collections []models.Collection) (map[uint]bool, error) {
	positive := make(map[uint]bool, len(traps))
	for _, t := range traps {
		if _, dup := positive[t.ID]; dup {
			return nil, &InputError{Reason: "ovitrampa repetida no escopo", TrapID: t.ID}
		}
		positive[t.ID] = false
	}

	for _, c := range collections {
		if _, ok := positive[c.TrapID]; !ok {
			return nil, &InputError{Reason: "coleta de ovitrampa fora do escopo", TrapID: c.TrapID, CollectionID: c.ID}
		}
		if c.EggCount < 0 {
			return nil, &InputError{Reason: "numero de ovos negativo", TrapID: c.TrapID, CollectionID: c.ID}
		}
		if c.Positive() {
			positive[c.TrapID] = true
		}
	}
	return positive, nil
}
