package handlers

import "github.com/labstack/echo/v4"

// Routes registers the API on e
func Routes(e *echo.Echo) {
	e.Validator = NewValidator()
	e.HTTPErrorHandler = HTTPErrorHandler(e.DefaultHTTPErrorHandler)

	e.POST("/register", RegisterPost)
	e.POST("/login", LoginPost)
	e.POST("/logout", LogoutPost)
	e.GET("/status", StatusGet)

	e.GET("/files", FilesGet, AuthMiddleware)
	e.POST("/files/uploadfile", UploadPost, AuthMiddleware)
	e.GET("/files/:filename", FileGet, AuthMiddleware)
	e.DELETE("/files/delete/:filename", FileDelete, AuthMiddleware)
	e.POST("/files/:filename/compress", StoredCompressPost, AuthMiddleware)
	e.POST("/files/:filename/cut", StoredCutPost, AuthMiddleware)
	e.GET("/transforms", TransformsGet, AuthMiddleware)

	e.POST("/file/compress", CompressPost, AuthMiddleware)
	e.POST("/file/cut", CutPost, AuthMiddleware)
}
