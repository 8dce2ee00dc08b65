package query

import (
	"encoding/json"
	"net/http"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/mailarchive/indexer/internal/storekeys"
)

// item is a Record stripped to the fields the read API exposes.
type item struct {
	List    string `json:"list"`
	Month   string `json:"month"`
	ID      string `json:"id"`
	Date    string `json:"date"`
	Author  string `json:"author"`
	Email   string `json:"email"`
	Subject string `json:"subject"`
}

type itemsResponse struct {
	Items  []item `json:"items"`
	Cursor string `json:"cursor,omitempty"`
}

func itemFromRecord(av map[string]types.AttributeValue) item {
	return item{
		List:    stringAttr(av, storekeys.AttrList),
		Month:   stringAttr(av, storekeys.AttrMonth),
		ID:      stringAttr(av, storekeys.AttrID),
		Date:    stringAttr(av, storekeys.AttrDate),
		Author:  stringAttr(av, storekeys.AttrAuthor),
		Email:   stringAttr(av, storekeys.AttrEmail),
		Subject: stringAttr(av, storekeys.AttrSubject),
	}
}

func stringAttr(av map[string]types.AttributeValue, name string) string {
	if v, ok := av[name].(*types.AttributeValueMemberS); ok {
		return v.Value
	}
	return ""
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeItems(w http.ResponseWriter, records []map[string]types.AttributeValue, lastKey map[string]types.AttributeValue) {
	items := make([]item, 0, len(records))
	for _, r := range records {
		items = append(items, itemFromRecord(r))
	}
	writeJSON(w, http.StatusOK, itemsResponse{Items: items, Cursor: encodeCursor(lastKey)})
}

func writeNotFound(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusNotFound)
	_, _ = w.Write([]byte("Not Found"))
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
}
