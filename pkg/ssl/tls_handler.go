package ssl

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/unrolled/secure"
)

// TlsHandler 将 HTTP 请求重定向到 HTTPS
func TlsHandler(host string, port int) gin.HandlerFunc {
	return func(c *gin.Context) {
		secureMiddleware := secure.New(secure.Options{
			SSLRedirect: true,
			SSLHost:     host + ":" + strconv.Itoa(port),
		})
		// Process 失败时已写入重定向响应，中止当前处理链即可
		if err := secureMiddleware.Process(c.Writer, c.Request); err != nil {
			return
		}

		c.Next()
	}
}
