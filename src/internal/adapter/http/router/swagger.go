package router

import (
	"fmt"
	"net/http"
)

func registerSwaggerRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /swagger", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/swagger/", http.StatusMovedPermanently)
	})

	mux.HandleFunc("GET /swagger/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = fmt.Fprintf(w, swaggerHTML, "/swagger/openapi.json")
	})

	mux.HandleFunc("GET /swagger/openapi.json", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(openAPI))
	})
}

const swaggerHTML = `<!doctype html>
<html>
<head>
  <meta charset="utf-8" />
  <title>Banking Ledger API Docs</title>
  <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5/swagger-ui.css" />
</head>
<body>
  <div id="swagger-ui"></div>
  <script src="https://unpkg.com/swagger-ui-dist@5/swagger-ui-bundle.js"></script>
  <script>
    window.onload = function() {
      window.ui = SwaggerUIBundle({
        url: "%s",
        dom_id: "#swagger-ui"
      });
    };
  </script>
</body>
</html>`

const openAPI = `{
  "openapi": "3.0.3",
  "info": {
    "title": "Banking Ledger API",
    "version": "1.0.0"
  },
  "paths": {
    "/signup": {
      "post": {
        "summary": "Register a user and open a default SAVINGS account",
        "requestBody": {
          "required": true,
          "content": {
            "application/json": {
              "schema": {
                "$ref": "#/components/schemas/SignUp"
              }
            }
          }
        },
        "responses": {
          "201": {
            "description": "Created"
          },
          "400": {
            "description": "Validation error"
          },
          "409": {
            "description": "Conflict"
          },
          "503": {
            "description": "Temporarily unavailable"
          }
        }
      }
    },
    "/accounts": {
      "get": {
        "summary": "List the caller's active accounts",
        "security": [
          {
            "BasicAuth": []
          }
        ],
        "responses": {
          "200": {
            "description": "OK"
          },
          "401": {
            "description": "Unauthorized"
          },
          "503": {
            "description": "Temporarily unavailable"
          }
        }
      },
      "post": {
        "summary": "Open an account",
        "security": [
          {
            "BasicAuth": []
          }
        ],
        "requestBody": {
          "required": true,
          "content": {
            "application/json": {
              "schema": {
                "$ref": "#/components/schemas/CreateAccount"
              }
            }
          }
        },
        "responses": {
          "201": {
            "description": "Created"
          },
          "400": {
            "description": "Validation error"
          },
          "401": {
            "description": "Unauthorized"
          },
          "409": {
            "description": "Conflict"
          },
          "503": {
            "description": "Temporarily unavailable"
          }
        }
      }
    },
    "/accounts/{accountNumber}": {
      "parameters": [
        {
          "name": "accountNumber",
          "in": "path",
          "required": true,
          "schema": {
            "type": "string",
            "example": "ACC-alice-1"
          }
        }
      ],
      "get": {
        "summary": "Get one of the caller's accounts",
        "security": [
          {
            "BasicAuth": []
          }
        ],
        "responses": {
          "200": {
            "description": "OK"
          },
          "401": {
            "description": "Unauthorized"
          },
          "404": {
            "description": "Account not found"
          },
          "503": {
            "description": "Temporarily unavailable"
          }
        }
      },
      "patch": {
        "summary": "Change the account type",
        "security": [
          {
            "BasicAuth": []
          }
        ],
        "requestBody": {
          "required": true,
          "content": {
            "application/json": {
              "schema": {
                "$ref": "#/components/schemas/UpdateAccount"
              }
            }
          }
        },
        "responses": {
          "200": {
            "description": "OK"
          },
          "400": {
            "description": "Validation error"
          },
          "401": {
            "description": "Unauthorized"
          },
          "404": {
            "description": "Account not found"
          },
          "503": {
            "description": "Temporarily unavailable"
          }
        }
      },
      "delete": {
        "summary": "Delete the account, or close it when it has transaction history",
        "security": [
          {
            "BasicAuth": []
          }
        ],
        "responses": {
          "200": {
            "description": "OK"
          },
          "401": {
            "description": "Unauthorized"
          },
          "404": {
            "description": "Account not found"
          },
          "503": {
            "description": "Temporarily unavailable"
          }
        }
      }
    },
    "/accounts/{accountNumber}/deposit": {
      "parameters": [
        {
          "name": "accountNumber",
          "in": "path",
          "required": true,
          "schema": {
            "type": "string",
            "example": "ACC-alice-1"
          }
        }
      ],
      "post": {
        "summary": "Deposit into an account",
        "security": [
          {
            "BasicAuth": []
          }
        ],
        "requestBody": {
          "required": true,
          "content": {
            "application/json": {
              "schema": {
                "$ref": "#/components/schemas/MoneyMovement"
              }
            }
          }
        },
        "responses": {
          "200": {
            "description": "OK"
          },
          "400": {
            "description": "Validation error"
          },
          "401": {
            "description": "Unauthorized"
          },
          "404": {
            "description": "Account not found"
          },
          "503": {
            "description": "Temporarily unavailable"
          }
        }
      }
    },
    "/accounts/{accountNumber}/withdraw": {
      "parameters": [
        {
          "name": "accountNumber",
          "in": "path",
          "required": true,
          "schema": {
            "type": "string",
            "example": "ACC-alice-1"
          }
        }
      ],
      "post": {
        "summary": "Withdraw from an account",
        "security": [
          {
            "BasicAuth": []
          }
        ],
        "requestBody": {
          "required": true,
          "content": {
            "application/json": {
              "schema": {
                "$ref": "#/components/schemas/MoneyMovement"
              }
            }
          }
        },
        "responses": {
          "200": {
            "description": "OK"
          },
          "400": {
            "description": "Validation error"
          },
          "401": {
            "description": "Unauthorized"
          },
          "404": {
            "description": "Account not found"
          },
          "503": {
            "description": "Temporarily unavailable"
          }
        }
      }
    },
    "/accounts/{accountNumber}/transactions": {
      "parameters": [
        {
          "name": "accountNumber",
          "in": "path",
          "required": true,
          "schema": {
            "type": "string",
            "example": "ACC-alice-1"
          }
        }
      ],
      "get": {
        "summary": "Transaction history, newest first",
        "security": [
          {
            "BasicAuth": []
          }
        ],
        "responses": {
          "200": {
            "description": "OK"
          },
          "401": {
            "description": "Unauthorized"
          },
          "403": {
            "description": "Forbidden"
          },
          "503": {
            "description": "Temporarily unavailable"
          }
        }
      }
    },
    "/transfers": {
      "post": {
        "summary": "Transfer between accounts",
        "security": [
          {
            "BasicAuth": []
          }
        ],
        "requestBody": {
          "required": true,
          "content": {
            "application/json": {
              "schema": {
                "$ref": "#/components/schemas/Transfer"
              }
            }
          }
        },
        "responses": {
          "200": {
            "description": "OK"
          },
          "400": {
            "description": "Validation error"
          },
          "401": {
            "description": "Unauthorized"
          },
          "404": {
            "description": "Account not found"
          },
          "503": {
            "description": "Temporarily unavailable"
          }
        }
      }
    },
    "/healthz": {
      "get": {
        "summary": "Liveness probe",
        "responses": {
          "200": {
            "description": "OK"
          },
          "503": {
            "description": "Temporarily unavailable"
          }
        }
      }
    }
  },
  "components": {
    "securitySchemes": {
      "BasicAuth": {
        "type": "http",
        "scheme": "basic"
      }
    },
    "schemas": {
      "SignUp": {
        "type": "object",
        "required": [
          "username",
          "password",
          "email",
          "fullName"
        ],
        "properties": {
          "username": {
            "type": "string"
          },
          "password": {
            "type": "string",
            "format": "password"
          },
          "email": {
            "type": "string",
            "format": "email"
          },
          "fullName": {
            "type": "string"
          },
          "phoneNumber": {
            "type": "string"
          },
          "address": {
            "type": "string"
          }
        }
      },
      "CreateAccount": {
        "type": "object",
        "required": [
          "accountType"
        ],
        "properties": {
          "accountType": {
            "type": "string",
            "enum": [
              "CHECKING",
              "SAVINGS"
            ]
          },
          "initialBalance": {
            "type": "string",
            "example": "0.00"
          }
        }
      },
      "UpdateAccount": {
        "type": "object",
        "required": [
          "accountType"
        ],
        "properties": {
          "accountType": {
            "type": "string",
            "enum": [
              "CHECKING",
              "SAVINGS"
            ]
          }
        }
      },
      "MoneyMovement": {
        "type": "object",
        "required": [
          "amount"
        ],
        "properties": {
          "amount": {
            "type": "string",
            "example": "100.00"
          },
          "description": {
            "type": "string"
          }
        }
      },
      "Transfer": {
        "type": "object",
        "required": [
          "senderAccountNumber",
          "receiverAccountNumber",
          "amount"
        ],
        "properties": {
          "senderAccountNumber": {
            "type": "string"
          },
          "receiverAccountNumber": {
            "type": "string"
          },
          "amount": {
            "type": "string",
            "example": "20.00"
          },
          "description": {
            "type": "string"
          }
        }
      }
    }
  }
}`
