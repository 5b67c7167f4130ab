package models

// ObservationCode é a convenção de observações de campo impressa no boletim.
// O código descreve a condição da armadilha; não impede contagem de ovos.
type ObservationCode string

const (
	ObsIntervaloMaior ObservationCode = "1"
	ObsDesaparecida   ObservationCode = "2"
	ObsQuebrada       ObservationCode = "3"
	ObsRemovida       ObservationCode = "4"
	ObsSeca           ObservationCode = "5"
	ObsCasaFechada    ObservationCode = "6"
	ObsCheiaDeAgua    ObservationCode = "7"
	ObsPoucaAgua      ObservationCode = "8"
)

var observationCodes = []ObservationCode{
	ObsIntervaloMaior, ObsDesaparecida, ObsQuebrada, ObsRemovida,
	ObsSeca, ObsCasaFechada, ObsCheiaDeAgua, ObsPoucaAgua,
}

var observationDescriptions = map[ObservationCode]string{
	ObsIntervaloMaior: "Intervalo entre instalação e coleta maior que o previsto",
	ObsDesaparecida:   "Ovitrampa ou paleta desaparecida",
	ObsQuebrada:       "Ovitrampa ou paleta quebrada",
	ObsRemovida:       "Ovitrampa ou paleta removida",
	ObsSeca:           "Ovitrampa seca",
	ObsCasaFechada:    "Casa fechada",
	ObsCheiaDeAgua:    "Ovitrampa cheia de água",
	ObsPoucaAgua:      "Ovitrampa com pouca água",
}

func (c ObservationCode) Valid() bool {
	_, ok := observationDescriptions[c]
	return ok
}

// Description devolve o texto da legenda, ou "" para código desconhecido.
func (c ObservationCode) Description() string {
	return observationDescriptions[c]
}

// ObservationLegend é uma linha da legenda de observações.
type ObservationLegend struct {
	Code        ObservationCode `json:"codigo"`
	Description string          `json:"descricao"`
}

// ObservationLegends devolve a legenda ordenada pelo código.
func ObservationLegends() []ObservationLegend {
	out := make([]ObservationLegend, 0, len(observationCodes))
	for _, code := range observationCodes {
		out = append(out, ObservationLegend{Code: code, Description: code.Description()})
	}
	return out
}
