package dynamo

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/rs/zerolog/log"

	"github.com/go-video-api/internal/domain"
)

// SessionRepo provides typed DynamoDB operations for the sessions table.
type SessionRepo struct {
	client    API
	tableName string
}

func NewSessionRepo(client API, tableName string) *SessionRepo {
	return &SessionRepo{client: client, tableName: tableName}
}

func (r *SessionRepo) Put(ctx context.Context, s *domain.Session) error {
	return putNew(ctx, r.client, r.tableName, fieldSessionID, s, "session")
}

func (r *SessionRepo) Get(ctx context.Context, sessionID string) (*domain.Session, error) {
	return getItem[domain.Session](ctx, r.client, r.tableName, strKey(fieldSessionID, sessionID), "session")
}

// Rotate swaps the stored refresh token, but only while the session is enabled
// and still holds oldToken. A lost race is domain.ErrUnauthorized.
func (r *SessionRepo) Rotate(ctx context.Context, sessionID, oldToken, newToken string, expiresAt int64) error {
	_, err := r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:           aws.String(r.tableName),
		Key:                 strKey(fieldSessionID, sessionID),
		UpdateExpression:    aws.String("SET #rt = :new, #exp = :exp, #u = :now"),
		ConditionExpression: aws.String("#rt = :old AND #en = :true"),
		ExpressionAttributeNames: map[string]string{
			"#rt":  fieldRefreshToken,
			"#exp": fieldExpiresAt,
			"#u":   fieldUpdatedAt,
			"#en":  fieldEnable,
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":new":  strVal(newToken),
			":old":  strVal(oldToken),
			":exp":  &types.AttributeValueMemberN{Value: fmt.Sprint(expiresAt)},
			":now":  timeVal(now()),
			":true": &types.AttributeValueMemberBOOL{Value: true},
		},
	})
	if err != nil {
		if isConditionFailed(err) {
			return fmt.Errorf("refresh token already used: %w", domain.ErrUnauthorized)
		}
		return fmt.Errorf("rotate session: %w", err)
	}
	return nil
}

// Revoke disables a session and forgets its refresh token. Revoking an
// unknown session is not an error.
func (r *SessionRepo) Revoke(ctx context.Context, sessionID string) error {
	_, err := r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:        aws.String(r.tableName),
		Key:              strKey(fieldSessionID, sessionID),
		UpdateExpression: aws.String("SET #en = :false, #u = :now REMOVE #rt"),
		ExpressionAttributeNames: map[string]string{
			"#en": fieldEnable,
			"#u":  fieldUpdatedAt,
			"#rt": fieldRefreshToken,
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":false": &types.AttributeValueMemberBOOL{Value: false},
			":now":   timeVal(now()),
		},
		ConditionExpression: aws.String("attribute_exists(session_id)"),
	})
	if err != nil && !isConditionFailed(err) {
		return fmt.Errorf("revoke session: %w", err)
	}
	return nil
}

// RevokeOthers disables every enabled session of userID except keep.
func (r *SessionRepo) RevokeOthers(ctx context.Context, userID, keep string) error {
	sessions, err := queryAll[domain.Session](ctx, r.client, &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		IndexName:              aws.String(indexSessionsByUser),
		KeyConditionExpression: aws.String("user_id = :uid"),
		FilterExpression:       aws.String("#en = :true"),
		ExpressionAttributeNames: map[string]string{
			"#en": fieldEnable,
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":uid":  strVal(userID),
			":true": &types.AttributeValueMemberBOOL{Value: true},
		},
	})
	if err != nil {
		return err
	}
	var firstErr error
	for _, s := range sessions {
		if s.SessionID == keep {
			continue
		}
		if err := r.Revoke(ctx, s.SessionID); err != nil {
			log.Warn().Err(err).Str("session_id", s.SessionID).Str("user_id", userID).Msg("failed to revoke session")
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}
