// Package docs registers the OpenAPI document served at /swagger/doc.json.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "consumes": ["application/json"],
    "produces": ["application/json"],
    "securityDefinitions": {
        "ApiKeyAuth": {"type": "apiKey", "in": "header", "name": "X-API-Key"}
    },
    "paths": {
        "/api/lead": {
            "post": {
                "tags": ["leads"],
                "summary": "Capture a lead",
                "description": "Accepts a contact-form lead or a calculator lead. The lead is stored before the agency is notified; notification failure does not fail the request.",
                "parameters": [
                    {"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/LeadRequest"}}
                ],
                "responses": {
                    "200": {"description": "Accepted", "schema": {"$ref": "#/definitions/LeadResponse"}},
                    "400": {"description": "Invalid payload", "schema": {"$ref": "#/definitions/LeadResponse"}},
                    "429": {"description": "Too many requests", "schema": {"$ref": "#/definitions/Problem"}},
                    "500": {"description": "Lead could not be stored", "schema": {"$ref": "#/definitions/LeadResponse"}}
                }
            }
        },
        "/api/estimate": {
            "post": {
                "tags": ["estimates"],
                "summary": "Estimate a monthly premium range",
                "parameters": [
                    {"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/EstimateInput"}}
                ],
                "responses": {
                    "200": {"description": "Range or agent referral", "schema": {"$ref": "#/definitions/Estimate"}},
                    "400": {"description": "Validation error", "schema": {"$ref": "#/definitions/Problem"}},
                    "422": {"description": "No rate for these inputs", "schema": {"$ref": "#/definitions/Problem"}}
                }
            }
        },
        "/api/products": {
            "get": {
                "tags": ["products"],
                "summary": "List products",
                "responses": {
                    "200": {"description": "Catalog", "schema": {"type": "array", "items": {"$ref": "#/definitions/Product"}}}
                }
            }
        },
        "/api/products/{product}": {
            "get": {
                "tags": ["products"],
                "summary": "Get a product",
                "parameters": [
                    {"in": "path", "name": "product", "type": "string", "required": true, "description": "type or slug"},
                    {"in": "query", "name": "age", "type": "integer", "description": "adds the age's coverage cap"}
                ],
                "responses": {
                    "200": {"description": "Product", "schema": {"$ref": "#/definitions/Product"}},
                    "400": {"description": "Age out of range", "schema": {"$ref": "#/definitions/Problem"}},
                    "404": {"description": "Unknown product", "schema": {"$ref": "#/definitions/Problem"}}
                }
            }
        },
        "/api/admin/leads/{lead_id}": {
            "get": {
                "tags": ["admin"],
                "summary": "Get a lead",
                "security": [{"ApiKeyAuth": []}],
                "parameters": [
                    {"in": "path", "name": "lead_id", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "Lead with notification and CRM state", "schema": {"type": "object"}},
                    "401": {"description": "Missing or wrong API key", "schema": {"$ref": "#/definitions/Problem"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/Problem"}}
                }
            }
        },
        "/api/admin/rates/reload": {
            "post": {
                "tags": ["admin"],
                "summary": "Reload rate tables from RATES_FILE",
                "security": [{"ApiKeyAuth": []}],
                "responses": {
                    "200": {"description": "Swapped", "schema": {"$ref": "#/definitions/ReloadResult"}},
                    "400": {"description": "File rejected; current rates kept", "schema": {"$ref": "#/definitions/Problem"}},
                    "409": {"description": "No rates file configured", "schema": {"$ref": "#/definitions/Problem"}}
                }
            }
        },
        "/health": {
            "get": {"tags": ["health"], "summary": "Liveness", "responses": {"200": {"description": "ok"}}}
        },
        "/readyz": {
            "get": {
                "tags": ["health"],
                "summary": "Readiness",
                "responses": {"200": {"description": "ready"}, "503": {"description": "lead store unreachable"}}
            }
        }
    },
    "definitions": {
        "Contact": {
            "type": "object",
            "required": ["firstName", "lastName", "email", "phone", "consent"],
            "properties": {
                "firstName": {"type": "string"},
                "lastName": {"type": "string"},
                "email": {"type": "string", "example": "ada@example.com"},
                "phone": {"type": "string", "example": "(555) 123-4567"},
                "state": {"type": "string", "example": "TX"},
                "consent": {"type": "boolean"}
            }
        },
        "Health": {
            "type": "object",
            "properties": {
                "heightFeet": {"type": "integer", "example": 5},
                "heightInches": {"type": "integer", "example": 6},
                "weight": {"type": "integer", "example": 160},
                "chronicCondition": {"type": "boolean"},
                "familyHistory": {"type": "boolean"},
                "medications": {"type": "boolean"}
            }
        },
        "EstimateInput": {
            "type": "object",
            "required": ["productType", "age", "gender", "coverage"],
            "properties": {
                "productType": {"type": "string", "enum": ["final_expense", "term_life", "whole_life"]},
                "policyStyle": {"type": "string", "enum": ["immediate", "graded", "term20", "level"]},
                "state": {"type": "string"},
                "age": {"type": "integer", "example": 65},
                "gender": {"type": "string", "enum": ["female", "male"]},
                "tobacco": {"type": "boolean"},
                "coverage": {"type": "string", "example": "10k"},
                "health": {"$ref": "#/definitions/Health"}
            }
        },
        "LeadRequest": {
            "type": "object",
            "description": "Either the flat contact-form fields or productType, inputs, estimate and contact.",
            "properties": {
                "firstName": {"type": "string"},
                "lastName": {"type": "string"},
                "email": {"type": "string"},
                "phone": {"type": "string"},
                "state": {"type": "string"},
                "message": {"type": "string"},
                "consent": {"type": "boolean"},
                "productType": {"type": "string"},
                "inputs": {"$ref": "#/definitions/EstimateInput"},
                "estimate": {
                    "type": "object",
                    "properties": {
                        "low": {"type": "number"},
                        "high": {"type": "number"},
                        "requiresAgent": {"type": "boolean"}
                    }
                },
                "contact": {"$ref": "#/definitions/Contact"},
                "source": {"type": "string"},
                "createdAt": {"type": "string", "format": "date-time"}
            }
        },
        "LeadResponse": {
            "type": "object",
            "properties": {
                "ok": {"type": "boolean"},
                "leadId": {"type": "string", "example": "lead_1735689600000_3f9a1c2e"},
                "message": {"type": "string"},
                "emailSent": {"type": "boolean"},
                "errors": {"type": "object", "additionalProperties": {"type": "string"}}
            }
        },
        "Estimate": {
            "type": "object",
            "properties": {
                "productType": {"type": "string"},
                "outcome": {"type": "string", "enum": ["estimate", "refer_agent"]},
                "coverage": {"type": "string"},
                "coverageAmount": {"type": "integer"},
                "maxCoverage": {"type": "integer"},
                "requiresAgent": {"type": "boolean"},
                "low": {"type": "integer", "example": 36},
                "high": {"type": "integer", "example": 46},
                "rangePercent": {"type": "integer", "example": 12},
                "display": {"type": "string", "example": "$36 - $46/mo"},
                "tobaccoRateProxy": {"type": "boolean"},
                "interpolated": {"type": "boolean"},
                "ratesVersion": {"type": "string"}
            }
        },
        "Product": {
            "type": "object",
            "properties": {
                "type": {"type": "string"},
                "slug": {"type": "string"},
                "name": {"type": "string"},
                "minAge": {"type": "integer"},
                "maxAge": {"type": "integer"},
                "termYears": {"type": "integer"},
                "styles": {"type": "array", "items": {"type": "string"}},
                "defaultStyle": {"type": "string"},
                "healthStep": {"type": "boolean"},
                "age": {"type": "integer"},
                "maxCoverage": {"type": "integer"}
            }
        },
        "ReloadResult": {
            "type": "object",
            "properties": {
                "previousVersion": {"type": "string"},
                "version": {"type": "string"}
            }
        },
        "Problem": {
            "type": "object",
            "description": "RFC 7807 Problem Details",
            "properties": {
                "type": {"type": "string", "example": "about:blank"},
                "title": {"type": "string", "example": "Validation Error"},
                "status": {"type": "integer", "example": 400},
                "detail": {"type": "string"},
                "errors": {"type": "object", "additionalProperties": {"type": "string"}}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0.0",
	Host:             "localhost:8080",
	BasePath:         "/",
	Schemes:          []string{"http", "https"},
	Title:            "Agency Leads API",
	Description:      "Lead capture and illustrative premium estimates for final expense, term and whole life.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
