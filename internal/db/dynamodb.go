package db

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/spacesedan/corenlp-sentiment/internal/models"
	"github.com/spacesedan/corenlp-sentiment/internal/utils"
)

const (
	MAX_BATCH_WRITE = 25
	MAX_RETRIES     = 3
	ROW_TTL         = 30 * 24 * time.Hour
)

type BatchWriter interface {
	BatchWriteItem(ctx context.Context, params *dynamodb.BatchWriteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.BatchWriteItemOutput, error)
}

// SentimentRowItem is one output row as stored in DynamoDB. RowKey keeps the
// rows of a file in output order.
type SentimentRowItem struct {
	FileID         string `dynamodbav:"file_id"`
	RowKey         string `dynamodbav:"row_key"`
	SegmentNumber  uint64 `dynamodbav:"segment_number"`
	SegmentID      string `dynamodbav:"segment_id,omitempty"`
	SentNumber     string `dynamodbav:"sent_number,omitempty"`
	Classification string `dynamodbav:"classification,omitempty"`
	ClassProb      string `dynamodbav:"class_prob,omitempty"`
	ClassNumber    string `dynamodbav:"class_number,omitempty"`
	ProbVeryNeg    string `dynamodbav:"prob_very_neg,omitempty"`
	ProbNeg        string `dynamodbav:"prob_neg,omitempty"`
	ProbNeut       string `dynamodbav:"prob_neut,omitempty"`
	ProbPos        string `dynamodbav:"prob_pos,omitempty"`
	ProbVeryPos    string `dynamodbav:"prob_very_pos,omitempty"`
	SentenceText   string `dynamodbav:"sentence_text,omitempty"`
	CreatedAt      int64  `dynamodbav:"created_at"`
	TTL            int64  `dynamodbav:"ttl"`
}

// RowsToItems flattens a processed payload into table items.
func RowsToItems(out models.Payload, now time.Time) []SentimentRowItem {
	items := make([]SentimentRowItem, 0, len(out.StringArrayList))
	for i, row := range out.StringArrayList {
		item := SentimentRowItem{
			FileID:         out.FileID,
			RowKey:         fmt.Sprintf("%06d", i),
			SentNumber:     row[0],
			Classification: row[1],
			ClassProb:      row[2],
			ClassNumber:    row[3],
			ProbVeryNeg:    row[4],
			ProbNeg:        row[5],
			ProbNeut:       row[6],
			ProbPos:        row[7],
			ProbVeryPos:    row[8],
			SentenceText:   row[9],
			CreatedAt:      now.Unix(),
			TTL:            now.Add(ROW_TTL).Unix(),
		}
		if i < len(out.SegmentNumber) {
			item.SegmentNumber = out.SegmentNumber[i]
		}
		if i < len(out.SegmentID) {
			item.SegmentID = out.SegmentID[i]
		}
		items = append(items, item)
	}
	return items
}

type RowSink struct {
	client  BatchWriter
	table   string
	buffer  *utils.BatchBuffer[SentimentRowItem]
	backoff time.Duration
}

func NewRowSink(client BatchWriter, table string) *RowSink {
	return &RowSink{
		client:  client,
		table:   table,
		buffer:  utils.NewBatchBuffer[SentimentRowItem](MAX_BATCH_WRITE),
		backoff: 500 * time.Millisecond,
	}
}

// StorePayload writes every row of a processed payload.
func (s *RowSink) StorePayload(ctx context.Context, out models.Payload) error {
	for _, item := range RowsToItems(out, time.Now()) {
		s.buffer.Add(item)
	}
	if err := s.Flush(ctx); err != nil {
		s.buffer.GetAndClear()
		return err
	}
	return nil
}

func (s *RowSink) Flush(ctx context.Context) error {
	for s.buffer.HasData() {
		select {
		case <-ctx.Done():
			slog.Warn("[DynamoDB] context canceled")
			return ctx.Err()
		default:
		}

		if err := s.writeBatch(ctx, s.buffer.Take()); err != nil {
			return err
		}
	}
	return nil
}

func (s *RowSink) writeBatch(ctx context.Context, batch []SentimentRowItem) error {
	writeRequests := make([]types.WriteRequest, 0, len(batch))
	for _, item := range batch {
		av, err := attributevalue.MarshalMap(item)
		if err != nil {
			return fmt.Errorf("[DynamoDB] Failed to marshal row: %w", err)
		}
		writeRequests = append(writeRequests, types.WriteRequest{
			PutRequest: &types.PutRequest{Item: av},
		})
	}

	out, err := s.client.BatchWriteItem(ctx, &dynamodb.BatchWriteItemInput{
		RequestItems: map[string][]types.WriteRequest{
			s.table: writeRequests,
		},
	})
	if err != nil {
		return fmt.Errorf("[DynamoDB] Failed to batch write sentiment rows: %w", err)
	}

	retryCount := 0
	backoff := s.backoff
	for len(out.UnprocessedItems) > 0 && retryCount < MAX_RETRIES {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
		backoff *= 2

		slog.Warn("[DynamoDB] Retrying unprocessed rows...",
			slog.Int("attempt", retryCount+1),
			slog.Int("remaining", len(out.UnprocessedItems[s.table])))

		out, err = s.client.BatchWriteItem(ctx, &dynamodb.BatchWriteItemInput{
			RequestItems: out.UnprocessedItems,
		})
		if err != nil {
			return fmt.Errorf("[DynamoDB] Retry error: %w", err)
		}
		retryCount++
	}

	if remaining := len(out.UnprocessedItems[s.table]); remaining > 0 {
		return fmt.Errorf("[DynamoDB] %d rows not written after %d retries", remaining, MAX_RETRIES)
	}

	slog.Debug("[DynamoDB] Stored sentiment rows", slog.Int("count", len(batch)))
	return nil
}
