// Package docs registers the OpenAPI description served under /swagger.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/detect": {
            "post": {
                "description": "Returns the detected languages, most confident first. An empty list means no language could be determined.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["detect"],
                "summary": "Detect the language of a text",
                "parameters": [
                    {
                        "description": "Text to analyse",
                        "name": "body",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/controllers.DetectRequest"}
                    }
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/controllers.DetectResponse"}},
                    "400": {"description": "Bad Request", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "413": {"description": "Request Entity Too Large", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "504": {"description": "Gateway Timeout", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/detect/scores": {
            "post": {
                "description": "Same as /detect and also returns the score of every active language after variant merging.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["detect"],
                "summary": "Detect with per-language scores",
                "parameters": [
                    {
                        "description": "Text to analyse",
                        "name": "body",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/controllers.DetectRequest"}
                    }
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/controllers.ScoresResponse"}},
                    "400": {"description": "Bad Request", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "413": {"description": "Request Entity Too Large", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/detect/batch": {
            "post": {
                "description": "Runs detection on a bounded worker pool. Results keep the input order.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["detect"],
                "summary": "Detect languages for many texts",
                "parameters": [
                    {
                        "maximum": 100,
                        "minimum": 1,
                        "type": "integer",
                        "default": 5,
                        "description": "Parallel workers (1..100)",
                        "name": "max_workers",
                        "in": "query"
                    },
                    {
                        "type": "string",
                        "default": "500ms",
                        "description": "Deadline per item (e.g. 500ms, 2s)",
                        "name": "item_timeout",
                        "in": "query"
                    },
                    {
                        "description": "Texts to analyse",
                        "name": "body",
                        "in": "body",
                        "required": true,
                        "schema": {"type": "array", "items": {"$ref": "#/definitions/controllers.DetectRequest"}}
                    }
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/controllers.BatchResponse"}},
                    "400": {"description": "Bad Request", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "413": {"description": "Request Entity Too Large", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/detect/email": {
            "post": {
                "description": "Accepts a raw RFC 822 message, drops quoted replies and signatures and detects the language of the body.",
                "consumes": ["text/plain", "message/rfc822"],
                "produces": ["application/json"],
                "tags": ["detect"],
                "summary": "Detect the language of an e-mail",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/service.EmailResult"}},
                    "400": {"description": "Bad Request", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "413": {"description": "Request Entity Too Large", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "422": {"description": "Unprocessable Entity", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/languages": {
            "get": {
                "description": "Codes the detector can return, with script variants merged into their canonical code.",
                "produces": ["application/json"],
                "tags": ["detect"],
                "summary": "List supported languages",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/controllers.LanguagesResponse"}}
                }
            }
        },
        "/health": {
            "get": {
                "description": "Returns the state of the language detector and its backends, memory usage and uptime.",
                "produces": ["application/json"],
                "tags": ["health"],
                "summary": "Service health check",
                "responses": {
                    "200": {"description": "Service is healthy", "schema": {"$ref": "#/definitions/controllers.HealthResponse"}},
                    "503": {"description": "Service is degraded", "schema": {"$ref": "#/definitions/controllers.HealthResponse"}}
                }
            }
        }
    },
    "definitions": {
        "controllers.DetectRequest": {
            "type": "object",
            "properties": {
                "minimum_ratio": {"type": "number", "example": 0.8},
                "text": {"type": "string", "example": "This is an English text."}
            }
        },
        "controllers.DetectResponse": {
            "type": "object",
            "properties": {
                "cached": {"type": "boolean"},
                "languages": {"type": "array", "items": {"type": "string"}, "example": ["en"]},
                "top": {"type": "string", "example": "en"},
                "truncated": {"type": "boolean"}
            }
        },
        "controllers.ScoresResponse": {
            "type": "object",
            "properties": {
                "cached": {"type": "boolean"},
                "languages": {"type": "array", "items": {"type": "string"}, "example": ["en"]},
                "scores": {"type": "object", "additionalProperties": {"type": "number"}},
                "top": {"type": "string", "example": "en"},
                "truncated": {"type": "boolean"}
            }
        },
        "controllers.LanguagesResponse": {
            "type": "object",
            "properties": {
                "count": {"type": "integer", "example": 2},
                "languages": {"type": "array", "items": {"type": "string"}, "example": ["de", "en"]}
            }
        },
        "controllers.BatchItemResult": {
            "type": "object",
            "properties": {
                "duration_ms": {"type": "integer"},
                "error": {"type": "string"},
                "index": {"type": "integer"},
                "languages": {"type": "array", "items": {"type": "string"}},
                "status": {"type": "string"},
                "top": {"type": "string"}
            }
        },
        "controllers.BatchResponse": {
            "type": "object",
            "properties": {
                "failed": {"type": "integer"},
                "processed": {"type": "integer"},
                "results": {"type": "array", "items": {"$ref": "#/definitions/controllers.BatchItemResult"}},
                "succeeded": {"type": "integer"}
            }
        },
        "controllers.HealthResponse": {
            "type": "object",
            "properties": {
                "checks": {"type": "object", "additionalProperties": true},
                "go_version": {"type": "string", "example": "go1.23.2"},
                "hostname": {"type": "string", "example": "langback-app-1"},
                "memory": {"type": "object", "additionalProperties": true},
                "num_goroutine": {"type": "integer", "example": 18},
                "service_name": {"type": "string", "example": "langback"},
                "status": {"type": "string", "example": "ok"},
                "timestamp": {"type": "string", "example": "2025-10-30T10:15:00Z"},
                "uptime": {"type": "string", "example": "5m42s"},
                "version": {"type": "string", "example": "v1.0.0"}
            }
        },
        "service.Email": {
            "type": "object",
            "properties": {
                "attachments": {"type": "integer"},
                "date": {"type": "string"},
                "from": {"type": "string"},
                "message_id": {"type": "string"},
                "subject": {"type": "string"},
                "text": {"type": "string"},
                "to": {"type": "array", "items": {"type": "string"}},
                "word_count": {"type": "integer"}
            }
        },
        "service.Result": {
            "type": "object",
            "properties": {
                "cached": {"type": "boolean"},
                "languages": {"type": "array", "items": {"type": "string"}},
                "scores": {"type": "object", "additionalProperties": {"type": "number"}},
                "top": {"type": "string"},
                "truncated": {"type": "boolean"}
            }
        },
        "service.EmailResult": {
            "type": "object",
            "properties": {
                "email": {"$ref": "#/definitions/service.Email"},
                "result": {"$ref": "#/definitions/service.Result"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "LangBack API",
	Description:      "Language detection over word and letter frequency profiles",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
