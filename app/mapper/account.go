package mapper

import (
	"encoding/json"
	"time"

	"github.com/vibast-solutions/ms-go-accounts/app/dto"
	"github.com/vibast-solutions/ms-go-accounts/app/entity"
	"google.golang.org/protobuf/types/known/structpb"
)

func AccountToResponse(user *entity.User, subscription *entity.Subscription) *dto.AccountResponse {
	if user == nil {
		return nil
	}

	return &dto.AccountResponse{
		ID:            user.ID,
		Email:         user.Email,
		EmailVerified: user.EmailVerified,
		CustomerID:    derefString(user.CustomerID),
		Subscription:  SubscriptionToResponse(subscription),
		CreatedAt:     formatTime(user.CreatedAt),
	}
}

func SubscriptionToResponse(item *entity.Subscription) *dto.SubscriptionResponse {
	if item == nil {
		return nil
	}

	return &dto.SubscriptionResponse{
		SubscriptionID:     item.SubscriptionID,
		PlanID:             item.PlanID,
		PriceID:            item.PriceID,
		Interval:           item.Interval,
		Status:             item.Status,
		IsActive:           item.IsActive,
		CurrentPeriodStart: formatTime(item.CurrentPeriodStart),
		CurrentPeriodEnd:   formatTime(item.CurrentPeriodEnd),
		CancelAtPeriodEnd:  item.CancelAtPeriodEnd,
	}
}

// AccountToStruct converts the JSON shape of an account into a protobuf
// Struct, keeping field names identical across HTTP and gRPC.
func AccountToStruct(resp *dto.AccountResponse) (*structpb.Struct, error) {
	raw, err := json.Marshal(resp)
	if err != nil {
		return nil, err
	}

	var fields map[string]interface{}
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, err
	}
	return structpb.NewStruct(fields)
}

func derefString(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}

func formatTime(v time.Time) string {
	if v.IsZero() {
		return ""
	}
	return v.UTC().Format(time.RFC3339)
}
