// Package docs registers the OpenAPI document served under /swagger/.
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
        "/v1/submissions": {
            "post": {
                "summary": "Open a stage submission for a creator",
                "tags": [
                    "submissions"
                ],
                "produces": [
                    "application/json"
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/CreateSubmissionRequest"
                        }
                    }
                ],
                "consumes": [
                    "application/json"
                ],
                "responses": {
                    "201": {
                        "description": "Created"
                    },
                    "400": {
                        "description": "validation failed"
                    },
                    "401": {
                        "description": "missing or invalid bearer token"
                    },
                    "403": {
                        "description": "forbidden"
                    },
                    "404": {
                        "description": "not found"
                    },
                    "409": {
                        "description": "invalid transition or conflict"
                    }
                }
            },
            "get": {
                "summary": "List submissions",
                "tags": [
                    "submissions"
                ],
                "produces": [
                    "application/json"
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [],
                "responses": {
                    "200": {
                        "description": "OK"
                    }
                }
            }
        },
        "/v1/submissions/{submission_id}": {
            "get": {
                "summary": "Get a submission with media and feedback",
                "tags": [
                    "submissions"
                ],
                "produces": [
                    "application/json"
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "type": "string",
                        "name": "submission_id",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK"
                    }
                }
            }
        },
        "/v1/submissions/{submission_id}/status": {
            "get": {
                "summary": "Get canonical and display status",
                "tags": [
                    "submissions"
                ],
                "produces": [
                    "application/json"
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "type": "string",
                        "name": "submission_id",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK"
                    }
                }
            }
        },
        "/v1/submissions/{submission_id}/media": {
            "post": {
                "summary": "Register an uploaded media item",
                "tags": [
                    "submissions"
                ],
                "produces": [
                    "application/json"
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "type": "string",
                        "name": "submission_id",
                        "in": "path",
                        "required": true
                    },
                    {
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/UploadMediaRequest"
                        }
                    }
                ],
                "consumes": [
                    "application/json"
                ],
                "responses": {
                    "201": {
                        "description": "Created"
                    },
                    "400": {
                        "description": "validation failed"
                    },
                    "401": {
                        "description": "missing or invalid bearer token"
                    },
                    "403": {
                        "description": "forbidden"
                    },
                    "404": {
                        "description": "not found"
                    },
                    "409": {
                        "description": "invalid transition or conflict"
                    }
                }
            }
        },
        "/v1/submissions/{submission_id}/submit": {
            "post": {
                "summary": "Send work to the reviewer",
                "tags": [
                    "submissions"
                ],
                "produces": [
                    "application/json"
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "type": "string",
                        "name": "submission_id",
                        "in": "path",
                        "required": true
                    },
                    {
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/SubmitRequest"
                        }
                    }
                ],
                "consumes": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK"
                    }
                }
            }
        },
        "/v1/submissions/{submission_id}/approve": {
            "post": {
                "summary": "Approve a media item or the whole submission",
                "tags": [
                    "review"
                ],
                "produces": [
                    "application/json"
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "type": "string",
                        "name": "submission_id",
                        "in": "path",
                        "required": true
                    },
                    {
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/ApproveRequest"
                        }
                    }
                ],
                "consumes": [
                    "application/json"
                ],
                "responses": {
                    "400": {
                        "description": "validation failed"
                    },
                    "401": {
                        "description": "missing or invalid bearer token"
                    },
                    "403": {
                        "description": "forbidden"
                    },
                    "404": {
                        "description": "not found"
                    },
                    "409": {
                        "description": "invalid transition or conflict"
                    },
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ReviewResponse"
                        }
                    },
                    "424": {
                        "description": "review committed, next stage unlock failed",
                        "schema": {
                            "$ref": "#/definitions/DependencyFailureResponse"
                        }
                    }
                }
            }
        },
        "/v1/submissions/{submission_id}/request-changes": {
            "post": {
                "summary": "Request changes with feedback",
                "tags": [
                    "review"
                ],
                "produces": [
                    "application/json"
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "type": "string",
                        "name": "submission_id",
                        "in": "path",
                        "required": true
                    },
                    {
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/RequestChangesRequest"
                        }
                    }
                ],
                "consumes": [
                    "application/json"
                ],
                "responses": {
                    "400": {
                        "description": "validation failed"
                    },
                    "401": {
                        "description": "missing or invalid bearer token"
                    },
                    "403": {
                        "description": "forbidden"
                    },
                    "404": {
                        "description": "not found"
                    },
                    "409": {
                        "description": "invalid transition or conflict"
                    },
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ReviewResponse"
                        }
                    },
                    "424": {
                        "description": "review committed, next stage unlock failed",
                        "schema": {
                            "$ref": "#/definitions/DependencyFailureResponse"
                        }
                    }
                }
            }
        },
        "/v1/submissions/{submission_id}/forward-feedback": {
            "post": {
                "summary": "Forward client feedback to the creator",
                "tags": [
                    "review"
                ],
                "produces": [
                    "application/json"
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "type": "string",
                        "name": "submission_id",
                        "in": "path",
                        "required": true
                    },
                    {
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/ForwardFeedbackRequest"
                        }
                    }
                ],
                "consumes": [
                    "application/json"
                ],
                "responses": {
                    "400": {
                        "description": "validation failed"
                    },
                    "401": {
                        "description": "missing or invalid bearer token"
                    },
                    "403": {
                        "description": "forbidden"
                    },
                    "404": {
                        "description": "not found"
                    },
                    "409": {
                        "description": "invalid transition or conflict"
                    },
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ReviewResponse"
                        }
                    },
                    "424": {
                        "description": "review committed, next stage unlock failed",
                        "schema": {
                            "$ref": "#/definitions/DependencyFailureResponse"
                        }
                    }
                }
            }
        },
        "/v1/submissions/{submission_id}/unlock": {
            "post": {
                "summary": "Retry the next-stage unlock",
                "tags": [
                    "review"
                ],
                "produces": [
                    "application/json"
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "type": "string",
                        "name": "submission_id",
                        "in": "path",
                        "required": true
                    },
                    {
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/UnlockRequest"
                        }
                    }
                ],
                "consumes": [
                    "application/json"
                ],
                "responses": {
                    "400": {
                        "description": "validation failed"
                    },
                    "401": {
                        "description": "missing or invalid bearer token"
                    },
                    "403": {
                        "description": "forbidden"
                    },
                    "404": {
                        "description": "not found"
                    },
                    "409": {
                        "description": "invalid transition or conflict"
                    },
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ReviewResponse"
                        }
                    },
                    "424": {
                        "description": "review committed, next stage unlock failed",
                        "schema": {
                            "$ref": "#/definitions/DependencyFailureResponse"
                        }
                    }
                }
            }
        },
        "/v1/campaigns/{campaign_id}/creators/{creator_id}/status": {
            "get": {
                "summary": "Aggregated creator status",
                "tags": [
                    "campaigns"
                ],
                "produces": [
                    "application/json"
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "type": "string",
                        "name": "campaign_id",
                        "in": "path",
                        "required": true
                    },
                    {
                        "type": "string",
                        "name": "creator_id",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK"
                    }
                }
            }
        },
        "/v1/campaigns/{campaign_id}/creators/{creator_id}/stage": {
            "get": {
                "summary": "Stage the creator should work on",
                "tags": [
                    "campaigns"
                ],
                "produces": [
                    "application/json"
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "type": "string",
                        "name": "campaign_id",
                        "in": "path",
                        "required": true
                    },
                    {
                        "type": "string",
                        "name": "creator_id",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK"
                    }
                }
            }
        },
        "/v1/campaigns/{campaign_id}/creator-statuses": {
            "get": {
                "summary": "Aggregated status of every creator",
                "tags": [
                    "campaigns"
                ],
                "produces": [
                    "application/json"
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "type": "string",
                        "name": "campaign_id",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK"
                    }
                }
            }
        }
    },
    "definitions": {
        "CreateSubmissionRequest": {
            "type": "object",
            "properties": {
                "campaign_id": {
                    "type": "string"
                },
                "creator_id": {
                    "type": "string"
                },
                "submission_type": {
                    "type": "string"
                },
                "due_date": {
                    "type": "string"
                }
            }
        },
        "UploadMediaRequest": {
            "type": "object",
            "properties": {
                "media_kind": {
                    "type": "string"
                },
                "url": {
                    "type": "string"
                },
                "file_name": {
                    "type": "string"
                },
                "replaces_media_id": {
                    "type": "string"
                }
            }
        },
        "SubmitRequest": {
            "type": "object",
            "properties": {
                "content": {
                    "type": "string"
                },
                "media_ids": {
                    "type": "array",
                    "items": {
                        "type": "string"
                    }
                }
            }
        },
        "ApproveRequest": {
            "type": "object",
            "properties": {
                "media_id": {
                    "type": "string"
                },
                "feedback": {
                    "type": "string"
                },
                "due_date": {
                    "type": "string"
                }
            }
        },
        "RequestChangesRequest": {
            "type": "object",
            "properties": {
                "media_ids": {
                    "type": "array",
                    "items": {
                        "type": "string"
                    }
                },
                "feedback": {
                    "type": "string"
                },
                "reasons": {
                    "type": "array",
                    "items": {
                        "type": "string"
                    }
                },
                "due_date": {
                    "type": "string"
                }
            }
        },
        "ForwardFeedbackRequest": {
            "type": "object",
            "properties": {
                "edited_feedback": {
                    "type": "string"
                },
                "due_date": {
                    "type": "string"
                }
            }
        },
        "UnlockRequest": {
            "type": "object",
            "properties": {
                "due_date": {
                    "type": "string"
                }
            }
        },
        "ReviewResponse": {
            "type": "object",
            "properties": {
                "submission": {
                    "type": "object"
                },
                "unlocked": {
                    "type": "object"
                },
                "no_op": {
                    "type": "boolean"
                }
            }
        },
        "DependencyFailureResponse": {
            "type": "object",
            "properties": {
                "code": {
                    "type": "string"
                },
                "message": {
                    "type": "string"
                },
                "retryable": {
                    "type": "boolean"
                },
                "submission": {
                    "type": "object"
                }
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Deliverable Review API",
	Description:      "Creator deliverable review workflow: media review, feedback, stage unlocks and creator status.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
