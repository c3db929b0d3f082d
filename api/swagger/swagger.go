package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "ClassTrack Attendance API",
        "description": "Local attendance management backend: sections, students, daily marks and monthly statistics.",
        "version": "1.0.0"
    },
    "basePath": "/",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Auth", "description": "User registration and login"},
        {"name": "Sections", "description": "Class section catalog"},
        {"name": "Students", "description": "Student roster management"},
        {"name": "Attendance", "description": "Daily marks, range queries and exports"},
        {"name": "Dashboard", "description": "Aggregated monthly statistics"}
    ],
    "paths": {
        "/health": {
            "get": {
                "summary": "Health check",
                "responses": {
                    "200": {"description": "OK"},
                    "503": {"description": "Database unreachable"}
                }
            }
        },
        "/auth/register": {
            "post": {
                "tags": ["Auth"],
                "summary": "Register a user",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/RegisterRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Email already registered"}
                }
            }
        },
        "/auth/login": {
            "post": {
                "tags": ["Auth"],
                "summary": "Authenticate a user",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Invalid password"},
                    "404": {"description": "User not found"}
                }
            }
        },
        "/sections": {
            "get": {
                "tags": ["Sections"],
                "summary": "List sections",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Sections"],
                "summary": "Create section",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SectionRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/sections/{id}": {
            "put": {
                "tags": ["Sections"],
                "summary": "Update section",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SectionRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "delete": {
                "tags": ["Sections"],
                "summary": "Delete section",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/students": {
            "get": {
                "tags": ["Students"],
                "summary": "List students with section details",
                "parameters": [
                    {"name": "section_id", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Students"],
                "summary": "Create student",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/StudentRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Student ID already used"}
                }
            }
        },
        "/students/{id}": {
            "put": {
                "tags": ["Students"],
                "summary": "Update student",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/StudentRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "delete": {
                "tags": ["Students"],
                "summary": "Delete student and their attendance records",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/students/reset-attendance": {
            "post": {
                "tags": ["Students"],
                "summary": "Drop and recreate the attendance table",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/attendance": {
            "get": {
                "tags": ["Attendance"],
                "summary": "Monthly attendance grid",
                "parameters": [
                    {"name": "month", "in": "query", "required": true, "type": "integer"},
                    {"name": "year", "in": "query", "required": true, "type": "integer"},
                    {"name": "section_id", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/attendance/range": {
            "get": {
                "tags": ["Attendance"],
                "summary": "Attendance marks within a date range",
                "parameters": [
                    {"name": "start", "in": "query", "required": true, "type": "string"},
                    {"name": "end", "in": "query", "required": true, "type": "string"},
                    {"name": "section_id", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/attendance/mark": {
            "post": {
                "tags": ["Attendance"],
                "summary": "Record, update or clear a single attendance mark",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/MarkRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/attendance/export": {
            "get": {
                "tags": ["Attendance"],
                "summary": "Export the monthly attendance sheet",
                "produces": ["text/csv", "application/pdf"],
                "parameters": [
                    {"name": "month", "in": "query", "required": true, "type": "integer"},
                    {"name": "year", "in": "query", "required": true, "type": "integer"},
                    {"name": "section_id", "in": "query", "type": "integer"},
                    {"name": "format", "in": "query", "type": "string", "enum": ["csv", "pdf"], "default": "csv"}
                ],
                "responses": {
                    "200": {"description": "File download"}
                }
            }
        },
        "/dashboard/stats": {
            "get": {
                "tags": ["Dashboard"],
                "summary": "Monthly dashboard statistics",
                "parameters": [
                    {"name": "month", "in": "query", "required": true, "type": "integer"},
                    {"name": "year", "in": "query", "required": true, "type": "integer"},
                    {"name": "section_id", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        }
    },
    "definitions": {
        "RegisterRequest": {
            "type": "object",
            "required": ["name", "email", "password"],
            "properties": {
                "name": {"type": "string"},
                "email": {"type": "string"},
                "password": {"type": "string", "minLength": 6}
            }
        },
        "LoginRequest": {
            "type": "object",
            "required": ["email", "password"],
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string"}
            }
        },
        "SectionRequest": {
            "type": "object",
            "required": ["name", "schedule"],
            "properties": {
                "name": {"type": "string"},
                "schedule": {"type": "string"}
            }
        },
        "StudentRequest": {
            "type": "object",
            "required": ["student_id", "name"],
            "properties": {
                "student_id": {"type": "string"},
                "name": {"type": "string"},
                "section_id": {"type": "integer"},
                "schedule": {"type": "string"}
            }
        },
        "MarkRequest": {
            "type": "object",
            "required": ["student_id", "date"],
            "properties": {
                "student_id": {"type": "integer"},
                "date": {"type": "string", "example": "2025-09-15"},
                "status": {"type": "string", "enum": ["P", "L", "A", ""]}
            }
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "status": {"type": "integer"}
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "data": {"type": "object"},
                "error": {"$ref": "#/definitions/APIError"}
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
