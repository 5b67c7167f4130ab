// Package contaovos envia as leituras de ovitrampas para o sistema Conta Ovos.
package contaovos

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/pimenteljoao44/sistema-ovitrampas/internal/config"
	"github.com/pimenteljoao44/sistema-ovitrampas/internal/models"
)

const collectionsPath = "/api/v1/coletas"

var idempotencyNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("conta-ovos/coletas"))

// Client é o cliente HTTP do Conta Ovos.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	loc        *time.Location
	logger     *logrus.Entry
}

// New cria o cliente. Devolve nil quando CONTA_OVOS_URL não está definida,
// o que desativa a sincronização. As datas de coleta são enviadas como dia
// em loc.
func New(cfg config.ContaOvosConfig, loc *time.Location, logger *logrus.Entry) *Client {
	baseURL := strings.TrimSuffix(cfg.URL, "/")
	if baseURL == "" {
		return nil
	}
	if loc == nil {
		loc = time.UTC
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	transport := &http.Transport{
		MaxIdleConns:        10,
		IdleConnTimeout:     30 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
	}
	return &Client{
		baseURL: baseURL,
		token:   cfg.Token,
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: transport,
		},
		loc:    loc,
		logger: logger,
	}
}

type reading struct {
	ID              uint    `json:"id_externo"`
	TrapNumber      string  `json:"ovitrampa"`
	Address         string  `json:"endereco,omitempty"`
	MunicipalityID  uint    `json:"municipio_id,omitempty"`
	CollectedAt     string  `json:"data_coleta"`
	EggCount        int     `json:"numero_ovos"`
	ReadingType     string  `json:"tipo_coleta"`
	ObservationCode *string `json:"observacao_codigo,omitempty"`
}

type pushRequest struct {
	Coletas []reading `json:"coletas"`
}

type pushResponse struct {
	Received int    `json:"recebidas"`
	Message  string `json:"message,omitempty"`
}

func toReading(c models.Collection, loc *time.Location) reading {
	r := reading{
		ID:          c.ID,
		CollectedAt: c.CollectedAt.In(loc).Format("2006-01-02"),
		EggCount:    c.EggCount,
		ReadingType: string(c.ReadingType),
	}
	if c.Trap != nil {
		r.TrapNumber = c.Trap.Number
		r.Address = c.Trap.Address
		r.MunicipalityID = c.Trap.MunicipalityID
	}
	if c.ObservationCode != nil {
		code := string(*c.ObservationCode)
		r.ObservationCode = &code
	}
	return r
}

// PushCollections envia as coletas num único POST. Qualquer resposta fora
// de 2xx é tratada como falha de todo o lote.
func (c *Client) PushCollections(ctx context.Context, collections []models.Collection) error {
	payload := pushRequest{Coletas: make([]reading, 0, len(collections))}
	for _, col := range collections {
		payload.Coletas = append(payload.Coletas, toReading(col, c.loc))
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+collectionsPath, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Idempotency-Key", idempotencyKey(collections))
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.WithError(err).Warn("requisicao ao conta ovos falhou")
		return fmt.Errorf("conta ovos: %w", err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var out pushResponse
		msg := string(respBody)
		if json.Unmarshal(respBody, &out) == nil && out.Message != "" {
			msg = out.Message
		}
		c.logger.WithFields(logrus.Fields{"status": resp.StatusCode, "message": msg}).Warn("conta ovos recusou o lote")
		return fmt.Errorf("conta ovos respondeu %d: %s", resp.StatusCode, msg)
	}

	var out pushResponse
	if len(respBody) > 0 {
		if err := json.Unmarshal(respBody, &out); err != nil {
			c.logger.WithError(err).WithField("body", string(respBody)).Debug("resposta do conta ovos sem json")
		}
	}
	c.logger.WithFields(logrus.Fields{"enviadas": len(collections), "recebidas": out.Received}).Info("lote enviado ao conta ovos")
	return nil
}

// idempotencyKey depende só dos ids do lote, assim o reenvio das mesmas
// coletas (por retry ou por duas sincronizações simultâneas) é reconhecido
// pelo Conta Ovos.
func idempotencyKey(collections []models.Collection) string {
	ids := make([]uint, len(collections))
	for i, c := range collections {
		ids[i] = c.ID
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	var b strings.Builder
	for i, id := range ids {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.FormatUint(uint64(id), 10))
	}
	return uuid.NewSHA1(idempotencyNamespace, []byte(b.String())).String()
}
