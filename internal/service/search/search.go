package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/elastic/go-elasticsearch/v9"

	"github.com/MKovalyov/food_delivery/internal/models"
)

// Search runs a fuzzy multi_match over restaurant names and addresses.
func Search(ctx context.Context, es *elasticsearch.Client, index, query string, from, size int) (int64, []models.Restaurant, error) {
	body := map[string]interface{}{
		"query": map[string]interface{}{
			"multi_match": map[string]interface{}{
				"query":     query,
				"fields":    []string{"restaurant_name^2", "address"},
				"fuzziness": "AUTO",
			},
		},
		"from": from,
		"size": size,
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return 0, nil, fmt.Errorf("search: encode query: %w", err)
	}

	res, err := es.Search(
		es.Search.WithContext(ctx),
		es.Search.WithIndex(index),
		es.Search.WithBody(&buf),
	)
	if err != nil {
		return 0, nil, fmt.Errorf("search: %w", err)
	}

	defer res.Body.Close()
	if res.IsError() {
		return 0, nil, fmt.Errorf("search: %s", res.Status())
	}

	var r struct {
		Hits struct {
			Total struct{ Value int64 }                `json:"total"`
			Hits  []struct {
				Source models.Restaurant `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return 0, nil, err
	}

	restaurants := make([]models.Restaurant, len(r.Hits.Hits))
	for i, hit := range r.Hits.Hits {
		restaurants[i] = hit.Source
	}
	return r.Hits.Total.Value, restaurants, nil
}
