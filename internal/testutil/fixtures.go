// internal/testutil/fixtures.go
package testutil

// Fixture data para tests de probes y reportes.

// FixtureDomains contiene dominios de prueba.
var FixtureDomains = []string{
	"example.com",
	"test.example.com",
	"subdomain.example.com",
	"another.test.example.com",
}

// FixtureCRTShJSON respuesta típica de crt.sh (output=json).
// Incluye wildcard, nombres múltiples por registro, duplicados y un dominio fuera de scope.
const FixtureCRTShJSON = `[
  {"issuer_name":"C=US, O=Let's Encrypt, CN=R3","name_value":"www.example.com\n*.example.com","not_after":"2026-12-31T23:59:59"},
  {"issuer_name":"C=US, O=Let's Encrypt, CN=R3","name_value":"API.example.com","not_after":"2026-06-01T00:00:00"},
  {"issuer_name":"C=US, O=Let's Encrypt, CN=R3","name_value":"www.example.com","not_after":"2025-06-01T00:00:00"},
  {"issuer_name":"C=US, O=DigiCert","name_value":"notexample.com","not_after":"2025-06-01T00:00:00"}
]`

// FixtureCRTShOverloaded página HTML que crt.sh sirve cuando está saturado.
const FixtureCRTShOverloaded = `<!DOCTYPE html>
<html><head><title>crt.sh | 502</title></head>
<body><h1>502 Bad Gateway</h1></body></html>`

// FixtureHackerTargetCSV respuesta de hostsearch (host,ip por línea).
const FixtureHackerTargetCSV = `www.example.com,93.184.216.34
mail.example.com,93.184.216.35
www.example.com,93.184.216.34
cdn.other.net,1.2.3.4
example.com,93.184.216.34`

// FixtureHackerTargetError respuesta cuando se agota la cuota gratuita.
const FixtureHackerTargetError = `error check your search parameter`

// FixtureWhoisRaw respuesta WHOIS mínima en formato Verisign.
const FixtureWhoisRaw = `   Domain Name: EXAMPLE.COM
   Registry Domain ID: 2336799_DOMAIN_COM-VRSN
   Registrar WHOIS Server: whois.iana.org
   Updated Date: 2024-08-14T07:01:34Z
   Creation Date: 1995-08-14T04:00:00Z
   Registry Expiry Date: 2025-08-13T04:00:00Z
   Registrar: RESERVED-Internet Assigned Numbers Authority
   Registrar IANA ID: 376
   Domain Status: clientDeleteProhibited https://icann.org/epp#clientDeleteProhibited
   Name Server: A.IANA-SERVERS.NET
   Name Server: B.IANA-SERVERS.NET
   DNSSEC: signedDelegation
`
