package dynamo

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/aws/smithy-go"
	"github.com/goccy/go-json"

	"github.com/go-video-api/internal/domain"
)

// batchGetLimit is the maximum number of keys accepted by one BatchGetItem call.
const batchGetLimit = 100

// strKey builds a DynamoDB primary key map with a single string attribute.
func strKey(name, value string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		name: &types.AttributeValueMemberS{Value: value},
	}
}

// compositeKey builds a DynamoDB primary key with two string attributes (PK + SK).
func compositeKey(pkName, pkValue, skName, skValue string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		pkName: &types.AttributeValueMemberS{Value: pkValue},
		skName: &types.AttributeValueMemberS{Value: skValue},
	}
}

func strVal(s string) types.AttributeValue { return &types.AttributeValueMemberS{Value: s} }

func now() time.Time { return time.Now().UTC() }

func timeVal(t time.Time) types.AttributeValue {
	av, _ := attributevalue.Marshal(t)
	return av
}

type updateExpr struct {
	Expr   string
	Names  map[string]string
	Values map[string]types.AttributeValue
}

// buildUpdateExpr converts a map of field->value into a DynamoDB SET expression.
// Fields are sorted so the expression is deterministic.
func buildUpdateExpr(updates map[string]any) (updateExpr, error) {
	if len(updates) == 0 {
		return updateExpr{}, errors.New("no fields to update")
	}
	keys := make([]string, 0, len(updates))
	for k := range updates {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	ue := updateExpr{
		Expr:   "SET ",
		Names:  make(map[string]string, len(keys)),
		Values: make(map[string]types.AttributeValue, len(keys)),
	}
	for i, k := range keys {
		nameKey := fmt.Sprintf("#f%d", i)
		valueKey := fmt.Sprintf(":v%d", i)
		av, err := attributevalue.Marshal(updates[k])
		if err != nil {
			return updateExpr{}, fmt.Errorf("marshal field %s: %w", k, err)
		}
		ue.Names[nameKey] = k
		ue.Values[valueKey] = av
		if i > 0 {
			ue.Expr += ", "
		}
		ue.Expr += nameKey + " = " + valueKey
	}
	return ue, nil
}

func isConditionFailed(err error) bool {
	var ccf *types.ConditionalCheckFailedException
	return errors.As(err, &ccf)
}

// isValidation reports a request DynamoDB refused as malformed.
func isValidation(err error) bool {
	var ae smithy.APIError
	return errors.As(err, &ae) && ae.ErrorCode() == "ValidationException"
}

func notFound(what string) error {
	return fmt.Errorf("%s not found: %w", what, domain.ErrNotFound)
}

// getItem loads one item by primary key. A missing item is domain.ErrNotFound.
func getItem[T any](ctx context.Context, c API, table string, key map[string]types.AttributeValue, what string) (*T, error) {
	out, err := c.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(table),
		Key:       key,
	})
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", what, err)
	}
	if len(out.Item) == 0 {
		return nil, notFound(what)
	}
	var v T
	if err := attributevalue.UnmarshalMap(out.Item, &v); err != nil {
		return nil, fmt.Errorf("unmarshal %s: %w", what, err)
	}
	return &v, nil
}

// putNew writes an item that must not exist yet.
func putNew(ctx context.Context, c API, table, pkName string, v any, what string) error {
	item, err := attributevalue.MarshalMap(v)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", what, err)
	}
	_, err = c.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:                aws.String(table),
		Item:                     item,
		ConditionExpression:      aws.String("attribute_not_exists(#pk)"),
		ExpressionAttributeNames: map[string]string{"#pk": pkName},
	})
	if err != nil {
		return fmt.Errorf("put %s: %w", what, err)
	}
	return nil
}

// updateItem applies a SET update to an existing item and returns the new
// version. updated_at is always refreshed.
func updateItem[T any](ctx context.Context, c API, table string, key map[string]types.AttributeValue, pkName string, updates map[string]any, what string) (*T, error) {
	updates[fieldUpdatedAt] = now()
	ue, err := buildUpdateExpr(updates)
	if err != nil {
		return nil, err
	}
	ue.Names["#pk"] = pkName
	out, err := c.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(table),
		Key:                       key,
		UpdateExpression:          aws.String(ue.Expr),
		ConditionExpression:       aws.String("attribute_exists(#pk)"),
		ExpressionAttributeNames:  ue.Names,
		ExpressionAttributeValues: ue.Values,
		ReturnValues:              types.ReturnValueAllNew,
	})
	return unmarshalUpdated[T](out, err, what)
}

func unmarshalUpdated[T any](out *dynamodb.UpdateItemOutput, err error, what string) (*T, error) {
	if err != nil {
		if isConditionFailed(err) {
			return nil, notFound(what)
		}
		return nil, fmt.Errorf("update %s: %w", what, err)
	}
	var v T
	if err := attributevalue.UnmarshalMap(out.Attributes, &v); err != nil {
		return nil, fmt.Errorf("unmarshal %s: %w", what, err)
	}
	return &v, nil
}

// deleteItem removes an item and returns what was deleted. Deleting an absent
// item is domain.ErrNotFound, so a repeated delete reports the same outcome.
func deleteItem[T any](ctx context.Context, c API, table string, key map[string]types.AttributeValue, what string) (*T, error) {
	out, err := c.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName:    aws.String(table),
		Key:          key,
		ReturnValues: types.ReturnValueAllOld,
	})
	if err != nil {
		return nil, fmt.Errorf("delete %s: %w", what, err)
	}
	if len(out.Attributes) == 0 {
		return nil, notFound(what)
	}
	var v T
	if err := attributevalue.UnmarshalMap(out.Attributes, &v); err != nil {
		return nil, fmt.Errorf("unmarshal %s: %w", what, err)
	}
	return &v, nil
}

// queryPage runs one page of in. With a FilterExpression a page may hold fewer
// than pr.Limit items while NextCursor is still set.
func queryPage[T any](ctx context.Context, c API, in *dynamodb.QueryInput, pr domain.PageRequest) (domain.Page[T], error) {
	limit := pr.Limit
	if limit <= 0 {
		limit = domain.DefaultPageLimit
	}
	page := domain.Page[T]{Items: []T{}, Limit: limit}

	in.Limit = aws.Int32(int32(limit))
	if pr.Cursor != "" {
		start, err := decodeCursor(pr.Cursor)
		if err != nil {
			return page, err
		}
		in.ExclusiveStartKey = start
	}
	out, err := c.Query(ctx, in)
	if err != nil {
		// A cursor from another query or with foreign attributes is rejected
		// by DynamoDB as an invalid starting key.
		if in.ExclusiveStartKey != nil && isValidation(err) {
			return page, fmt.Errorf("invalid cursor: %w", domain.ErrBadRequest)
		}
		return page, fmt.Errorf("query %s: %w", aws.ToString(in.TableName), err)
	}
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &page.Items); err != nil {
		return page, fmt.Errorf("unmarshal page: %w", err)
	}
	if page.NextCursor, err = encodeCursor(out.LastEvaluatedKey); err != nil {
		return page, err
	}
	return page, nil
}

// queryAll follows every page of in.
func queryAll[T any](ctx context.Context, c API, in *dynamodb.QueryInput) ([]T, error) {
	items := []T{}
	p := dynamodb.NewQueryPaginator(c, in)
	for p.HasMorePages() {
		out, err := p.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("query %s: %w", aws.ToString(in.TableName), err)
		}
		var batch []T
		if err := attributevalue.UnmarshalListOfMaps(out.Items, &batch); err != nil {
			return nil, fmt.Errorf("unmarshal items: %w", err)
		}
		items = append(items, batch...)
	}
	return items, nil
}

// queryNext reads the next page of a paginator.
func queryNext[T any](ctx context.Context, p *dynamodb.QueryPaginator) ([]T, error) {
	out, err := p.NextPage(ctx)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	var items []T
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &items); err != nil {
		return nil, fmt.Errorf("unmarshal items: %w", err)
	}
	return items, nil
}

// countQuery returns the number of items matching in without reading them.
func countQuery(ctx context.Context, c API, in *dynamodb.QueryInput) (int, error) {
	in.Select = types.SelectCount
	total := 0
	for {
		out, err := c.Query(ctx, in)
		if err != nil {
			return 0, fmt.Errorf("count %s: %w", aws.ToString(in.TableName), err)
		}
		total += int(out.Count)
		if len(out.LastEvaluatedKey) == 0 {
			return total, nil
		}
		in.ExclusiveStartKey = out.LastEvaluatedKey
	}
}

// batchGet loads items by string primary key. Missing ids are skipped and the
// result order is unspecified.
func batchGet[T any](ctx context.Context, c API, table, keyName string, ids []string) ([]T, error) {
	seen := make(map[string]struct{}, len(ids))
	keys := make([]map[string]types.AttributeValue, 0, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup || id == "" {
			continue
		}
		seen[id] = struct{}{}
		keys = append(keys, strKey(keyName, id))
	}

	items := []T{}
	for start := 0; start < len(keys); start += batchGetLimit {
		end := min(start+batchGetLimit, len(keys))
		req := map[string]types.KeysAndAttributes{table: {Keys: keys[start:end]}}
		for attempt := 0; len(req) > 0; attempt++ {
			if attempt > 0 {
				if attempt > 5 {
					return nil, fmt.Errorf("batch get %s: unprocessed keys after retries", table)
				}
				select {
				case <-ctx.Done():
					return nil, ctx.Err()
				case <-time.After(time.Duration(attempt*50) * time.Millisecond):
				}
			}
			out, err := c.BatchGetItem(ctx, &dynamodb.BatchGetItemInput{RequestItems: req})
			if err != nil {
				return nil, fmt.Errorf("batch get %s: %w", table, err)
			}
			var batch []T
			if err := attributevalue.UnmarshalListOfMaps(out.Responses[table], &batch); err != nil {
				return nil, fmt.Errorf("unmarshal items: %w", err)
			}
			items = append(items, batch...)
			req = out.UnprocessedKeys
		}
	}
	return items, nil
}

// orderByIDs arranges items in the order of ids, repeating or dropping items
// as ids does.
func orderByIDs[T any](items []T, ids []string, idOf func(T) string) []T {
	byID := make(map[string]T, len(items))
	for _, it := range items {
		byID[idOf(it)] = it
	}
	out := make([]T, 0, len(ids))
	for _, id := range ids {
		if it, ok := byID[id]; ok {
			out = append(out, it)
		}
	}
	return out
}

// encodeCursor turns a LastEvaluatedKey into an opaque client cursor.
// All key attributes in this schema are strings.
func encodeCursor(lek map[string]types.AttributeValue) (string, error) {
	if len(lek) == 0 {
		return "", nil
	}
	m := make(map[string]string, len(lek))
	for k, v := range lek {
		s, ok := v.(*types.AttributeValueMemberS)
		if !ok {
			return "", fmt.Errorf("cursor attribute %s is not a string", k)
		}
		m[k] = s.Value
	}
	b, err := json.Marshal(m)
	if err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

func decodeCursor(cursor string) (map[string]types.AttributeValue, error) {
	b, err := base64.RawURLEncoding.DecodeString(cursor)
	if err != nil {
		return nil, fmt.Errorf("invalid cursor: %w", domain.ErrBadRequest)
	}
	var m map[string]string
	if err := json.Unmarshal(b, &m); err != nil || len(m) == 0 {
		return nil, fmt.Errorf("invalid cursor: %w", domain.ErrBadRequest)
	}
	key := make(map[string]types.AttributeValue, len(m))
	for k, v := range m {
		key[k] = strVal(v)
	}
	return key, nil
}
