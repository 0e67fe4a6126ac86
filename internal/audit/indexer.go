// internal/audit/indexer.go
package audit

import (
	"bytes"
	"context"
	"encoding/json"

	"workorder-assistant/internal/common/database"
	"workorder-assistant/internal/common/logger"
	"workorder-assistant/internal/models"
)

// ESIndexer mirrors audit rows into Elasticsearch for free-text search
// over historical queries. Indexing is best effort.
type ESIndexer struct {
	es    *database.ElasticsearchClient
	index string
	log   logger.Logger
}

func NewESIndexer(es *database.ElasticsearchClient, index string, log logger.Logger) *ESIndexer {
	return &ESIndexer{es: es, index: index, log: log}
}

func (i *ESIndexer) Index(ctx context.Context, entry *models.QueryLog) {
	doc, err := json.Marshal(entry)
	if err != nil {
		i.log.WithError(err).Warn("failed to marshal audit document", nil)
		return
	}

	res, err := i.es.Client.Index(
		i.index,
		bytes.NewReader(doc),
		i.es.Client.Index.WithContext(ctx),
	)
	if err != nil {
		i.log.WithError(err).Warn("failed to index audit document", map[string]interface{}{
			"index": i.index,
		})
		return
	}
	defer res.Body.Close()

	if res.IsError() {
		i.log.Warn("audit index request rejected", map[string]interface{}{
			"index":  i.index,
			"status": res.Status(),
		})
	}
}
