package models

// ErrorResponse โครงสร้างมาตรฐานสำหรับการส่ง Error
type ErrorResponse struct {
	Status  int         `json:"status"`            // HTTP Status Code
	Message string      `json:"message"`           // รายละเอียดของ Error
	Details interface{} `json:"details,omitempty"` // ข้อมูลเพิ่มเติม เช่น คำถามที่ยังไม่ได้ตอบ
}
