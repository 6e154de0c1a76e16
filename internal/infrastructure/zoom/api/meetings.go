// Copyright Just Adios contributors.
// SPDX-License-Identifier: MIT

package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/justadios/adios/internal/domain"
	"github.com/justadios/adios/internal/domain/models"
)

// Ensure that Client implements the meeting provider interface
var _ domain.MeetingProvider = (*Client)(nil)

// listMeetingsResponse represents the response from the list meetings endpoint
type listMeetingsResponse struct {
	PageSize      int                       `json:"page_size"`
	TotalRecords  int                       `json:"total_records"`
	NextPageToken string                    `json:"next_page_token"`
	Meetings      []*models.ProviderMeeting `json:"meetings"`
}

// endMeetingRequest represents the request to change a meeting's status
type endMeetingRequest struct {
	Action string `json:"action"`
}

// ListLiveMeetings returns the meetings currently live for the user the
// access token belongs to.
func (c *Client) ListLiveMeetings(ctx context.Context, accessToken string) ([]*models.ProviderMeeting, error) {
	return c.listMeetings(ctx, accessToken, "live")
}

// listMeetings aggregates every page of the user's meetings of the given
// type. Zoom paginates with next_page_token; an empty token marks the
// last page.
func (c *Client) listMeetings(ctx context.Context, accessToken, meetingType string) ([]*models.ProviderMeeting, error) {
	var meetings []*models.ProviderMeeting
	pageToken := ""

	for {
		query := url.Values{}
		query.Set("type", meetingType)
		if pageToken != "" {
			query.Set("next_page_token", pageToken)
		}

		resp, err := c.doRequest(ctx, http.MethodGet, "/users/me/meetings?"+query.Encode(), accessToken, nil)
		if err != nil {
			return nil, err
		}

		var listResp listMeetingsResponse
		err = func() error {
			defer func() { _ = resp.Body.Close() }()
			if err := c.checkStatus(ctx, resp, http.StatusOK); err != nil {
				return err
			}
			return decodeResponse(resp, &listResp)
		}()
		if err != nil {
			return nil, err
		}

		meetings = append(meetings, listResp.Meetings...)
		if listResp.NextPageToken == "" {
			return meetings, nil
		}
		pageToken = listResp.NextPageToken
	}
}

// EndMeeting forcibly ends a live meeting.
func (c *Client) EndMeeting(ctx context.Context, accessToken string, meetingID int64) error {
	path := fmt.Sprintf("/meetings/%d/status", meetingID)
	resp, err := c.doRequest(ctx, http.MethodPut, path, accessToken, &endMeetingRequest{Action: "end"})
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	return c.checkStatus(ctx, resp, http.StatusNoContent, http.StatusOK)
}
