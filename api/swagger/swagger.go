package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Uncode Society Sign-up API",
        "description": "Lesson catalog and registration notifier",
        "version": "1.0.0"
    },
    "basePath": "/",
    "schemes": [
        "http",
        "https"
    ],
    "tags": [
        {"name": "Lessons", "description": "Recurring lesson catalog"},
        {"name": "Registrations", "description": "Sign-up notifications to the administrator"},
        {"name": "Observability", "description": "Health and metrics"}
    ],
    "paths": {
        "/health": {
            "get": {
                "tags": ["Observability"],
                "summary": "Health check",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/ready": {
            "get": {
                "tags": ["Observability"],
                "summary": "Readiness check",
                "responses": {
                    "200": {"description": "Ready"},
                    "503": {"description": "A dependency is unavailable"}
                }
            }
        },
        "/metrics": {
            "get": {
                "tags": ["Observability"],
                "summary": "Prometheus metrics",
                "produces": ["text/plain"],
                "responses": {
                    "200": {"description": "Metrics in exposition format"}
                }
            }
        },
        "/api/v1/metrics/summary": {
            "get": {
                "tags": ["Observability"],
                "summary": "Process metrics snapshot",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/lessons": {
            "get": {
                "tags": ["Lessons"],
                "summary": "List upcoming lessons",
                "parameters": [
                    {"$ref": "#/parameters/locale"}
                ],
                "responses": {
                    "200": {
                        "description": "Lessons with their next occurrence",
                        "schema": {
                            "allOf": [
                                {"$ref": "#/definitions/ResponseEnvelope"},
                                {"properties": {"data": {"type": "array", "items": {"$ref": "#/definitions/Lesson"}}}}
                            ]
                        }
                    },
                    "400": {"description": "Invalid locale", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/lessons/{id}": {
            "get": {
                "tags": ["Lessons"],
                "summary": "Get a lesson occurrence",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"},
                    {"$ref": "#/parameters/locale"}
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "allOf": [
                                {"$ref": "#/definitions/ResponseEnvelope"},
                                {"properties": {"data": {"$ref": "#/definitions/Lesson"}}}
                            ]
                        }
                    },
                    "404": {"description": "Lesson not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/lessons/export": {
            "get": {
                "tags": ["Lessons"],
                "summary": "Download the lesson schedule",
                "produces": ["application/pdf", "text/csv"],
                "parameters": [
                    {"name": "format", "in": "query", "type": "string", "enum": ["pdf", "csv"], "default": "pdf"},
                    {"$ref": "#/parameters/locale"}
                ],
                "responses": {
                    "200": {"description": "Schedule document", "schema": {"type": "file"}}
                }
            }
        },
        "/api/v1/registrations": {
            "post": {
                "tags": ["Registrations"],
                "summary": "Submit a lesson registration",
                "description": "Validates the registration and e-mails the administrator. Nothing is stored.",
                "consumes": ["application/json"],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/Registration"}}
                ],
                "responses": {
                    "200": {"description": "Accepted", "schema": {"$ref": "#/definitions/RegistrationAck"}},
                    "400": {"description": "Validation failed", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "500": {"description": "Notification could not be sent", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/functions/v1/send-registration-email": {
            "post": {
                "tags": ["Registrations"],
                "summary": "Submit a lesson registration (hosted function path)",
                "consumes": ["application/json"],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/Registration"}}
                ],
                "responses": {
                    "200": {"description": "Accepted", "schema": {"$ref": "#/definitions/RegistrationAck"}},
                    "400": {"description": "Validation failed", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "500": {"description": "Notification could not be sent", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/notifications": {
            "get": {
                "tags": ["Registrations"],
                "summary": "List notification deliveries",
                "parameters": [
                    {"name": "status", "in": "query", "type": "string", "enum": ["sent", "failed"]},
                    {"name": "page", "in": "query", "type": "integer", "minimum": 1},
                    {"name": "pageSize", "in": "query", "type": "integer", "minimum": 1, "maximum": 100}
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "allOf": [
                                {"$ref": "#/definitions/ResponseEnvelope"},
                                {"properties": {"data": {"type": "array", "items": {"$ref": "#/definitions/NotificationLog"}}}}
                            ]
                        }
                    },
                    "503": {"description": "Delivery log disabled", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        }
    },
    "parameters": {
        "locale": {"name": "locale", "in": "query", "type": "string", "enum": ["nl", "en"]}
    },
    "definitions": {
        "Lesson": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "title": {"type": "string"},
                "language": {"type": "string", "enum": ["HTML/CSS", "Python", "Java"]},
                "level": {"type": "string", "enum": ["Beginner", "Intermediate"]},
                "duration": {"type": "string", "example": "1,5 uur"},
                "date": {"type": "string", "example": "Vrijdag 13 februari"},
                "time": {"type": "string", "example": "15:00 - 16:30"},
                "location": {"type": "string"},
                "capacity": {"type": "integer"},
                "spotsLeft": {"type": "integer"},
                "nextDate": {"type": "string", "format": "date"},
                "weekday": {"type": "string"}
            }
        },
        "Registration": {
            "type": "object",
            "required": ["fullName", "age", "email", "lessonTitle"],
            "properties": {
                "fullName": {"type": "string", "maxLength": 100},
                "age": {"type": "integer", "minimum": 14, "maximum": 100},
                "email": {"type": "string", "maxLength": 255},
                "lessonTitle": {"type": "string"},
                "lessonLanguage": {"type": "string"},
                "lessonLevel": {"type": "string"}
            }
        },
        "RegistrationAck": {
            "type": "object",
            "properties": {
                "data": {
                    "type": "object",
                    "properties": {"success": {"type": "boolean"}}
                }
            }
        },
        "NotificationLog": {
            "type": "object",
            "properties": {
                "id": {"type": "string", "format": "uuid"},
                "lesson_title": {"type": "string"},
                "lesson_language": {"type": "string"},
                "lesson_level": {"type": "string"},
                "status": {"type": "string", "enum": ["sent", "failed"]},
                "provider": {"type": "string"},
                "error": {"type": "string"},
                "created_at": {"type": "string", "format": "date-time"},
                "sent_at": {"type": "string", "format": "date-time"}
            }
        },
        "Pagination": {
            "type": "object",
            "properties": {
                "page": {"type": "integer"},
                "page_size": {"type": "integer"},
                "total_count": {"type": "integer"}
            }
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "status": {"type": "integer"},
                "details": {"type": "object", "additionalProperties": {"type": "string"}}
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "data": {"type": "object"},
                "error": {"$ref": "#/definitions/APIError"},
                "pagination": {"$ref": "#/definitions/Pagination"},
                "meta": {"type": "object"}
            }
        }
    }
}`

type swaggerDoc struct{}

// ReadDoc returns the Swagger document.
func (s *swaggerDoc) ReadDoc() string {
	return docTemplate
}

func init() {
	swag.Register(swag.Name, &swaggerDoc{})
}
