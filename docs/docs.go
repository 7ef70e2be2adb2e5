// Package docs registers the OpenAPI description of the portal with swag so
// echo-swagger can serve it at /swagger/*.
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
        "/login": {
            "get": {
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Login page",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.loginPageResponse"}},
                    "302": {"description": "already signed in, redirected to /dashboard"}
                }
            },
            "post": {
                "consumes": ["application/json", "application/x-www-form-urlencoded"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Sign in",
                "parameters": [
                    {"description": "Login credentials", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.loginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": true}},
                    "303": {"description": "redirect to /dashboard"},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.errorResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/handler.errorResponse"}},
                    "422": {"description": "Unprocessable Entity", "schema": {"$ref": "#/definitions/handler.errorResponse"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }
            }
        },
        "/logout": {
            "post": {
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Sign out",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": true}},
                    "303": {"description": "redirect to /login"}
                }
            }
        },
        "/session": {
            "get": {
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Current session",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.sessionResponse"}}
                }
            }
        },
        "/signup": {
            "get": {
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Sign-up page",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.signupPageResponse"}}
                }
            },
            "post": {
                "consumes": ["application/json", "application/x-www-form-urlencoded"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Register a doctor",
                "parameters": [
                    {"description": "Doctor registration details", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.signupRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"type": "object", "additionalProperties": true}},
                    "303": {"description": "redirect to /login"},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.errorResponse"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/handler.errorResponse"}},
                    "422": {"description": "Unprocessable Entity", "schema": {"$ref": "#/definitions/handler.errorResponse"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }
            }
        },
        "/dashboard": {
            "get": {
                "produces": ["application/json"],
                "tags": ["portal"],
                "summary": "Dashboard",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.dashboardResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/handler.errorResponse"}},
                    "503": {"description": "Session still loading"}
                }
            }
        },
        "/patients": {
            "get": {
                "produces": ["application/json"],
                "tags": ["portal"],
                "summary": "List patients",
                "parameters": [
                    {"type": "string", "description": "Search over name and email", "name": "q", "in": "query"},
                    {"type": "string", "description": "stable, needs_attention, critical or all", "name": "status", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.patientListResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }
            }
        },
        "/patients/{id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["portal"],
                "summary": "Patient detail",
                "parameters": [
                    {"type": "string", "description": "Patient id", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.Patient"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/handler.errorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }
            }
        },
        "/alerts": {
            "get": {
                "produces": ["application/json"],
                "tags": ["portal"],
                "summary": "List alerts",
                "parameters": [
                    {"type": "string", "description": "critical, adherence, appointment, medication, symptom or all", "name": "type", "in": "query"},
                    {"type": "string", "description": "read, unread or all", "name": "status", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.alertListResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }
            }
        },
        "/alerts/{id}/read": {
            "post": {
                "produces": ["application/json"],
                "tags": ["portal"],
                "summary": "Mark an alert as read",
                "parameters": [
                    {"type": "string", "description": "Alert id", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.messageResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/handler.errorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }
            }
        },
        "/alerts/read-all": {
            "post": {
                "produces": ["application/json"],
                "tags": ["portal"],
                "summary": "Mark every alert as read",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.messageResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }
            }
        },
        "/appointments": {
            "get": {
                "produces": ["application/json"],
                "tags": ["portal"],
                "summary": "List appointments",
                "parameters": [
                    {"type": "string", "description": "Search over title and patient name", "name": "q", "in": "query"},
                    {"type": "string", "description": "scheduled, completed, cancelled or all", "name": "status", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.appointmentListResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }
            }
        },
        "/settings": {
            "get": {
                "produces": ["application/json"],
                "tags": ["portal"],
                "summary": "Signed-in doctor's profile",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.settingsResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }
            }
        },
        "/health": {
            "get": {
                "produces": ["application/json"],
                "tags": ["health"],
                "summary": "Liveness probe",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/health/ready": {
            "get": {
                "produces": ["application/json"],
                "tags": ["health"],
                "summary": "Readiness probe",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.readinessResponse"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/handler.readinessResponse"}}
                }
            }
        }
    },
    "definitions": {
        "domain.Session": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "email": {"type": "string"},
                "name": {"type": "string"},
                "specialization": {"type": "string"}
            }
        },
        "domain.DashboardStats": {
            "type": "object",
            "properties": {
                "total_patients": {"type": "integer"},
                "active_medications": {"type": "integer"},
                "pending_meetings": {"type": "integer"},
                "urgent_alerts": {"type": "integer"},
                "overall_adherence_rate": {"type": "integer"},
                "patients_with_low_adherence": {"type": "integer"}
            }
        },
        "domain.Patient": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "name": {"type": "string"},
                "age": {"type": "integer"},
                "email": {"type": "string"},
                "phone": {"type": "string"},
                "adherence_rate": {"type": "integer"},
                "total_medications": {"type": "integer"},
                "missed_doses_week": {"type": "integer"},
                "last_visit": {"type": "string"},
                "next_appointment": {"type": "string"},
                "medical_conditions": {"type": "array", "items": {"type": "string"}},
                "status": {"type": "string", "enum": ["stable", "needs_attention", "critical"]}
            }
        },
        "domain.Alert": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "type": {"type": "string", "enum": ["critical", "adherence", "appointment", "medication", "symptom"]},
                "title": {"type": "string"},
                "message": {"type": "string"},
                "patient_name": {"type": "string"},
                "patient_id": {"type": "string"},
                "medication": {"type": "string"},
                "time": {"type": "string", "format": "date-time"},
                "read": {"type": "boolean"},
                "priority": {"type": "string"}
            }
        },
        "domain.Appointment": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "title": {"type": "string"},
                "patient_name": {"type": "string"},
                "patient_id": {"type": "string"},
                "scheduled_time": {"type": "string", "format": "date-time"},
                "duration_minutes": {"type": "integer"},
                "meeting_platform": {"type": "string", "enum": ["google_meet", "jitsi", "zoom"]},
                "meeting_url": {"type": "string"},
                "status": {"type": "string", "enum": ["scheduled", "completed", "cancelled"]},
                "description": {"type": "string"},
                "include_family": {"type": "boolean"}
            }
        },
        "handler.errorResponse": {
            "type": "object",
            "properties": {"error": {"type": "string"}}
        },
        "handler.messageResponse": {
            "type": "object",
            "properties": {"message": {"type": "string"}}
        },
        "handler.loginRequest": {
            "type": "object",
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string"}
            }
        },
        "handler.signupRequest": {
            "type": "object",
            "required": ["first_name", "last_name", "email", "specialization", "password", "confirm_password", "agree_to_terms"],
            "properties": {
                "first_name": {"type": "string"},
                "last_name": {"type": "string"},
                "email": {"type": "string"},
                "phone": {"type": "string"},
                "country": {"type": "string"},
                "specialization": {"type": "string"},
                "license_number": {"type": "string"},
                "hospital_affiliation": {"type": "string"},
                "password": {"type": "string", "minLength": 8},
                "confirm_password": {"type": "string"},
                "agree_to_terms": {"type": "boolean"}
            }
        },
        "handler.demoAccount": {
            "type": "object",
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string"},
                "name": {"type": "string"}
            }
        },
        "handler.loginPageResponse": {
            "type": "object",
            "properties": {
                "title": {"type": "string"},
                "demo_accounts": {"type": "array", "items": {"$ref": "#/definitions/handler.demoAccount"}}
            }
        },
        "handler.signupPageResponse": {
            "type": "object",
            "properties": {
                "title": {"type": "string"},
                "specializations": {"type": "array", "items": {"type": "string"}},
                "available": {"type": "boolean"}
            }
        },
        "handler.sessionResponse": {
            "type": "object",
            "properties": {
                "state": {"type": "string", "enum": ["UNINITIALIZED", "LOADING", "AUTHENTICATED", "ANONYMOUS"]},
                "user": {"$ref": "#/definitions/domain.Session"}
            }
        },
        "handler.dashboardResponse": {
            "type": "object",
            "properties": {
                "doctor": {"$ref": "#/definitions/domain.Session"},
                "stats": {"$ref": "#/definitions/domain.DashboardStats"},
                "patients": {"type": "array", "items": {"$ref": "#/definitions/domain.Patient"}},
                "recent_alerts": {"type": "array", "items": {"$ref": "#/definitions/domain.Alert"}},
                "upcoming_appointments": {"type": "array", "items": {"$ref": "#/definitions/domain.Appointment"}}
            }
        },
        "handler.patientListResponse": {
            "type": "object",
            "properties": {
                "items": {"type": "array", "items": {"$ref": "#/definitions/domain.Patient"}},
                "total": {"type": "integer"}
            }
        },
        "handler.alertListResponse": {
            "type": "object",
            "properties": {
                "items": {"type": "array", "items": {"$ref": "#/definitions/domain.Alert"}},
                "total": {"type": "integer"},
                "unread_count": {"type": "integer"}
            }
        },
        "handler.appointmentListResponse": {
            "type": "object",
            "properties": {
                "items": {"type": "array", "items": {"$ref": "#/definitions/domain.Appointment"}},
                "total": {"type": "integer"}
            }
        },
        "handler.settingsResponse": {
            "type": "object",
            "properties": {
                "doctor": {"$ref": "#/definitions/domain.Session"}
            }
        },
        "handler.dependencyStatus": {
            "type": "object",
            "properties": {
                "status": {"type": "string"},
                "error": {"type": "string"}
            }
        },
        "handler.readinessResponse": {
            "type": "object",
            "properties": {
                "status": {"type": "string"},
                "dependencies": {"type": "object", "additionalProperties": {"$ref": "#/definitions/handler.dependencyStatus"}}
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
	Title:            "SmartMed Doctor Portal API",
	Description:      "Session and portal endpoints of the SmartMed doctor portal.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
