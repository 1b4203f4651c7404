package models

// TenantContext identifica la empresa dueña de la petición en curso. Se deriva
// siempre del token de la propia petición y nunca debe sobrevivirla: una
// conexión reutilizada puede traer un tenant distinto en la siguiente llamada.
type TenantContext struct {
	// Empresa es el alias que el Transacional usa para enrutar su base de datos.
	Empresa string
	// Token es la credencial cruda (sin prefijo "Bearer ") que se reenvía tal cual.
	Token string
}
