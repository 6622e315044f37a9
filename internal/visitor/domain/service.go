package domain

import (
	"context"
	"errors"

	"github.com/societyhq/societyhub/pkg/pagination"
)

type CheckInRequest struct {
	SocietyID        string `json:"society_id" binding:"required"`
	MemberID         string `json:"member_id"`
	FlatNumber       string `json:"flat_number"`
	VisitorName      string `json:"visitor_name" binding:"required"`
	VisitorPhone     string `json:"visitor_phone"`
	VisitorEmail     string `json:"visitor_email"`
	VisitorIDType    string `json:"visitor_id_type"`
	VisitorIDNumber  string `json:"visitor_id_number"`
	PurposeOfVisit   string `json:"purpose_of_visit"`
	NumberOfVisitors int    `json:"number_of_visitors"`
	VehicleNumber    string `json:"vehicle_number"`
	VehicleType      string `json:"vehicle_type"`
	EntryGate        string `json:"entry_gate"`
	IsExpected       bool   `json:"is_expected"`
}

type CheckOutRequest struct {
	ID       string `json:"-"`
	ExitGate string `json:"exit_gate"`
}

type ListVisitorsRequest struct {
	pagination.Pagination
	SocietyID  string `form:"society_id"`
	MemberID   string `form:"member_id"`
	Status     string `form:"status"`
	FlatNumber string `form:"flat_number"`
	Search     string `form:"search"`
}

type ListVisitorsResponse struct {
	Visitors   []Visitor           `json:"visitors"`
	Pagination pagination.PageInfo `json:"pagination"`
}

type Service interface {
	CheckIn(ctx context.Context, req CheckInRequest) (*Visitor, error)
	CheckOut(ctx context.Context, req CheckOutRequest) (*Visitor, error)
	List(ctx context.Context, req ListVisitorsRequest) (ListVisitorsResponse, error)
	GetByID(ctx context.Context, id string) (*Visitor, error)
}

var (
	ErrInvalidID         = errors.New("invalid_visitor_id")
	ErrInvalidName       = errors.New("invalid_visitor_name")
	ErrNotFound          = errors.New("visitor_not_found")
	ErrAlreadyCheckedOut = errors.New("visitor_already_checked_out")
)
