/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package stack

import (
	"net/http"
	"sort"
	"strings"

	"github.com/suparena/itemsapi/canary"
	"github.com/suparena/itemsapi/config"
	"github.com/suparena/itemsapi/handlers"
)

// Logical ids of the fixed resources.
const (
	TableID      = "ItemsTable"
	RoleID       = "ItemsFunctionRole"
	APIID        = "ItemsApi"
	ItemsID      = "ItemsResource"
	ItemID       = "ItemResource"
	DeploymentID = "ItemsApiDeployment"
	ScheduleID   = "CanarySchedule"
)

// Options parameterise the template. Zero values take the defaults.
type Options struct {
	TableName    string
	PrimaryKey   string
	CodeBucket   string
	CodeKey      string
	Runtime      string
	StageName    string
	CanaryRate   string
	MemorySize   int
	TimeoutSecs  int
	Architecture string
}

// Route binds a handler to a method of one of the two API resources.
type Route struct {
	Handler  string
	Method   string
	Resource string
}

// Routes is the method table of the REST API.
var Routes = []Route{
	{handlers.GetAll, http.MethodGet, ItemsID},
	{handlers.CreateOne, http.MethodPost, ItemsID},
	{handlers.DeleteAll, http.MethodDelete, ItemsID},
	{handlers.GetOne, http.MethodGet, ItemID},
	{handlers.UpdateOne, http.MethodPatch, ItemID},
	{handlers.DeleteOne, http.MethodDelete, ItemID},
}

func (o Options) withDefaults() Options {
	if o.TableName == "" {
		o.TableName = "items"
	}
	if o.PrimaryKey == "" {
		o.PrimaryKey = "itemId"
	}
	if o.CodeKey == "" {
		o.CodeKey = "items-lambda.zip"
	}
	if o.Runtime == "" {
		o.Runtime = "provided.al2023"
	}
	if o.StageName == "" {
		o.StageName = "prod"
	}
	if o.CanaryRate == "" {
		o.CanaryRate = "rate(2 hours)"
	}
	if o.MemorySize == 0 {
		o.MemorySize = 128
	}
	if o.TimeoutSecs == 0 {
		o.TimeoutSecs = 30
	}
	if o.Architecture == "" {
		o.Architecture = "arm64"
	}
	return o
}

// Build declares the table, one function per handler, the REST API and the
// canary schedule.
func Build(opts Options) *Template {
	opts = opts.withDefaults()
	t := &Template{
		AWSTemplateFormatVersion: "2010-09-09",
		Description:              "Items API backed by DynamoDB",
		Resources:                make(map[string]Resource),
		Outputs:                  make(map[string]Output),
	}

	t.Resources[TableID] = Resource{
		Type:           "AWS::DynamoDB::Table",
		DeletionPolicy: "Delete",
		Properties: map[string]any{
			"TableName":   opts.TableName,
			"BillingMode": "PAY_PER_REQUEST",
			"AttributeDefinitions": []map[string]any{
				{"AttributeName": opts.PrimaryKey, "AttributeType": "S"},
			},
			"KeySchema": []map[string]any{
				{"AttributeName": opts.PrimaryKey, "KeyType": "HASH"},
			},
		},
	}
	t.Resources[RoleID] = executionRole()

	for _, name := range append(handlerNames(), canary.HandlerName) {
		t.Resources[FunctionID(name)] = function(opts, name)
	}

	addAPI(t, opts)
	addCanary(t, opts)

	t.Outputs["ApiUrl"] = Output{
		Description: "Base URL of the items API",
		Value:       sub(apiURL(opts)),
	}
	t.Outputs["TableName"] = Output{Value: ref(TableID)}
	return t
}

// FunctionID is the logical id of the function serving handler.
func FunctionID(handler string) string {
	return upperFirst(handler) + "Function"
}

// MethodID is the logical id of the API method of route.
func MethodID(r Route) string {
	return strings.TrimSuffix(r.Resource, "Resource") + upperFirst(strings.ToLower(r.Method)) + "Method"
}

func handlerNames() []string {
	names := make([]string, 0, len(Routes))
	for _, r := range Routes {
		names = append(names, r.Handler)
	}
	sort.Strings(names)
	return names
}

func executionRole() Resource {
	return Resource{
		Type: "AWS::IAM::Role",
		Properties: map[string]any{
			"AssumeRolePolicyDocument": map[string]any{
				"Version": "2012-10-17",
				"Statement": []map[string]any{{
					"Effect":    "Allow",
					"Principal": map[string]any{"Service": "lambda.amazonaws.com"},
					"Action":    "sts:AssumeRole",
				}},
			},
			"ManagedPolicyArns": []any{
				sub("arn:${AWS::Partition}:iam::aws:policy/service-role/AWSLambdaBasicExecutionRole"),
			},
			"Policies": []map[string]any{{
				"PolicyName": "items-table-read-write",
				"PolicyDocument": map[string]any{
					"Version": "2012-10-17",
					"Statement": []map[string]any{{
						"Effect": "Allow",
						"Action": []string{
							"dynamodb:Scan",
							"dynamodb:GetItem",
							"dynamodb:PutItem",
							"dynamodb:UpdateItem",
							"dynamodb:DeleteItem",
						},
						"Resource": getAtt(TableID, "Arn"),
					}},
				},
			}},
		},
	}
}

func function(opts Options, handler string) Resource {
	env := map[string]any{
		config.EnvTableName:  ref(TableID),
		config.EnvPrimaryKey: opts.PrimaryKey,
	}
	if handler == canary.HandlerName {
		env[config.EnvAPIBaseURL] = sub(apiURL(opts))
	}

	code := map[string]any{"S3Key": opts.CodeKey}
	if opts.CodeBucket != "" {
		code["S3Bucket"] = opts.CodeBucket
	}

	return Resource{
		Type: "AWS::Lambda::Function",
		Properties: map[string]any{
			"Handler":       handler,
			"Runtime":       opts.Runtime,
			"Architectures": []string{opts.Architecture},
			"MemorySize":    opts.MemorySize,
			"Timeout":       opts.TimeoutSecs,
			"Role":          getAtt(RoleID, "Arn"),
			"Code":          code,
			"Environment":   map[string]any{"Variables": env},
			"TracingConfig": map[string]any{"Mode": "PassThrough"},
		},
	}
}

func addAPI(t *Template, opts Options) {
	t.Resources[APIID] = Resource{
		Type: "AWS::ApiGateway::RestApi",
		Properties: map[string]any{
			"Name": "Items Service",
		},
	}
	t.Resources[ItemsID] = Resource{
		Type: "AWS::ApiGateway::Resource",
		Properties: map[string]any{
			"RestApiId": ref(APIID),
			"ParentId":  getAtt(APIID, "RootResourceId"),
			"PathPart":  "items",
		},
	}
	t.Resources[ItemID] = Resource{
		Type: "AWS::ApiGateway::Resource",
		Properties: map[string]any{
			"RestApiId": ref(APIID),
			"ParentId":  ref(ItemsID),
			"PathPart":  "{" + handlers.PathParamID + "}",
		},
	}

	var methods []string
	for _, r := range Routes {
		id := MethodID(r)
		methods = append(methods, id)
		fn := FunctionID(r.Handler)

		t.Resources[id] = Resource{
			Type: "AWS::ApiGateway::Method",
			Properties: map[string]any{
				"RestApiId":         ref(APIID),
				"ResourceId":        ref(r.Resource),
				"HttpMethod":        r.Method,
				"AuthorizationType": "NONE",
				"Integration": map[string]any{
					"Type":                  "AWS_PROXY",
					"IntegrationHttpMethod": http.MethodPost,
					"Uri":                   sub("arn:${AWS::Partition}:apigateway:${AWS::Region}:lambda:path/2015-03-31/functions/${" + fn + ".Arn}/invocations"),
				},
			},
		}
		t.Resources[upperFirst(r.Handler)+"Permission"] = Resource{
			Type: "AWS::Lambda::Permission",
			Properties: map[string]any{
				"Action":       "lambda:InvokeFunction",
				"FunctionName": ref(fn),
				"Principal":    "apigateway.amazonaws.com",
				"SourceArn":    sub("arn:${AWS::Partition}:execute-api:${AWS::Region}:${AWS::AccountId}:${" + APIID + "}/*"),
			},
		}
	}

	for _, res := range []string{ItemsID, ItemID} {
		id := strings.TrimSuffix(res, "Resource") + "OptionsMethod"
		methods = append(methods, id)
		t.Resources[id] = corsOptions(res)
	}

	sort.Strings(methods)
	t.Resources[DeploymentID] = Resource{
		Type:      "AWS::ApiGateway::Deployment",
		DependsOn: methods,
		Properties: map[string]any{
			"RestApiId": ref(APIID),
			"StageName": opts.StageName,
		},
	}
}

func corsOptions(resource string) Resource {
	params := make(map[string]any, len(handlers.CORSHeaders))
	declared := make(map[string]any, len(handlers.CORSHeaders))
	for k, v := range handlers.CORSHeaders {
		params["method.response.header."+k] = "'" + v + "'"
		declared["method.response.header."+k] = true
	}

	return Resource{
		Type: "AWS::ApiGateway::Method",
		Properties: map[string]any{
			"RestApiId":         ref(APIID),
			"ResourceId":        ref(resource),
			"HttpMethod":        http.MethodOptions,
			"AuthorizationType": "NONE",
			"Integration": map[string]any{
				"Type":                "MOCK",
				"PassthroughBehavior": "NEVER",
				"RequestTemplates":    map[string]any{"application/json": `{"statusCode": 200}`},
				"IntegrationResponses": []map[string]any{{
					"StatusCode":         "200",
					"ResponseParameters": params,
				}},
			},
			"MethodResponses": []map[string]any{{
				"StatusCode":         "200",
				"ResponseParameters": declared,
			}},
		},
	}
}

func addCanary(t *Template, opts Options) {
	fn := FunctionID(canary.HandlerName)
	t.Resources[ScheduleID] = Resource{
		Type: "AWS::Events::Rule",
		Properties: map[string]any{
			"ScheduleExpression": opts.CanaryRate,
			"State":              "ENABLED",
			"Targets": []map[string]any{{
				"Id":  "items-canary",
				"Arn": getAtt(fn, "Arn"),
			}},
		},
	}
	t.Resources[upperFirst(canary.HandlerName)+"Permission"] = Resource{
		Type: "AWS::Lambda::Permission",
		Properties: map[string]any{
			"Action":       "lambda:InvokeFunction",
			"FunctionName": ref(fn),
			"Principal":    "events.amazonaws.com",
			"SourceArn":    getAtt(ScheduleID, "Arn"),
		},
	}
}

func apiURL(opts Options) string {
	return "https://${" + APIID + "}.execute-api.${AWS::Region}.${AWS::URLSuffix}/" + opts.StageName + "/"
}

func upperFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
