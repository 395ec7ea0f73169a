/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/aws/aws-lambda-go/events"

	"github.com/suparena/itemsapi/errors"
)

// CORSHeaders are returned on every response and by the OPTIONS routes.
var CORSHeaders = map[string]string{
	"Access-Control-Allow-Headers":     "Content-Type,X-Amz-Date,Authorization,X-Api-Key,X-Amz-Security-Token,X-Amz-User-Agent",
	"Access-Control-Allow-Origin":      "*",
	"Access-Control-Allow-Credentials": "false",
	"Access-Control-Allow-Methods":     "OPTIONS,GET,PUT,POST,PATCH,DELETE",
}

func headers(withJSON bool) map[string]string {
	h := make(map[string]string, len(CORSHeaders)+1)
	for k, v := range CORSHeaders {
		h[k] = v
	}
	if withJSON {
		h["Content-Type"] = "application/json"
	}
	return h
}

func emptyResponse(status int) events.APIGatewayProxyResponse {
	return events.APIGatewayProxyResponse{
		StatusCode: status,
		Headers:    headers(false),
		Body:       "",
	}
}

func jsonResponse(status int, v interface{}) events.APIGatewayProxyResponse {
	b, err := json.Marshal(v)
	if err != nil {
		return failureResponse(http.StatusInternalServerError, err)
	}
	return events.APIGatewayProxyResponse{
		StatusCode: status,
		Headers:    headers(true),
		Body:       string(b),
	}
}

func failureResponse(status int, err error) events.APIGatewayProxyResponse {
	return events.APIGatewayProxyResponse{
		StatusCode: status,
		Headers:    headers(true),
		Body:       errors.Serialize(err),
	}
}

// Preflight answers a CORS OPTIONS request.
func Preflight() events.APIGatewayProxyResponse {
	return emptyResponse(http.StatusOK)
}
